package matchups

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/timeutil"
	"nhl-travel-service/internal/travel"
)

// Ranker selects and orders matchups where the away team is travel-fatigued.
type Ranker struct {
	aggregator *travel.Aggregator
	logger     *slog.Logger
}

// NewRanker constructs a Ranker over an aggregator.
func NewRanker(aggregator *travel.Aggregator, logger *slog.Logger) *Ranker {
	return &Ranker{aggregator: aggregator, logger: logger}
}

// BestMatchups returns qualifying games on p.TargetDate ordered by away travel, largest first.
// Missing schedule data degrades to fewer results; only invalid params return an error.
func (r *Ranker) BestMatchups(ctx context.Context, p Params) ([]domaintravel.Matchup, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("matchups: %w", err)
	}

	back := p.LookbackDays
	if p.RequireBackToBack && back < 1 {
		back = 1
	}
	start, _ := timeutil.AddDays(p.TargetDate, -back)
	prev, _ := timeutil.AddDays(p.TargetDate, -1)

	w, err := r.aggregator.FetchWindow(ctx, start, p.TargetDate)
	if err != nil {
		return nil, err
	}
	travelled, err := r.aggregator.TravelFromWindow(ctx, w, p.TargetDate, p.LookbackDays)
	if err != nil {
		return nil, err
	}

	var backToBack map[string]bool
	if p.RequireBackToBack {
		backToBack = awayYesterday(w.Games(prev), prev)
	}

	out := make([]domaintravel.Matchup, 0)
	for _, g := range w.Games(p.TargetDate) {
		if g.Date != p.TargetDate || g.HomeTeam.Name == "" || g.AwayTeam.Name == "" {
			continue
		}
		if p.RequireBackToBack && !backToBack[g.AwayTeam.Name] {
			continue
		}
		local, ok := LocalStart(g)
		if !ok {
			logging.Debug(logging.FromContext(ctx, r.logger), "skipping game without usable start time",
				slog.String(logging.FieldDate, g.Date),
				slog.String("game_id", g.ID),
			)
			continue
		}
		if local.Hour() < p.NightStartHour {
			continue
		}
		away := travelled[g.AwayTeam.Name]
		if away < p.TravelThreshold {
			continue
		}
		m := domaintravel.Matchup{
			GameID:         g.ID,
			Date:           g.Date,
			HomeTeam:       g.HomeTeam.Name,
			AwayTeam:       g.AwayTeam.Name,
			AwayTravel:     away,
			LocalStartTime: local.Format("15:04"),
		}
		if home, ok := travelled[g.HomeTeam.Name]; ok {
			m.HomeTravel = &home
		}
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AwayTravel > out[j].AwayTravel
	})
	return out, nil
}

// LocalStart converts a game's UTC start to venue-local time.
// An unknown or malformed offset leaves the time in UTC.
func LocalStart(g domaingames.Game) (time.Time, bool) {
	if g.StartTime == "" {
		return time.Time{}, false
	}
	start, err := time.Parse(time.RFC3339, g.StartTime)
	if err != nil {
		return time.Time{}, false
	}
	start = start.UTC()
	if g.VenueUTCOffset == "" {
		return start, true
	}
	loc, err := timeutil.FixedZone(g.VenueUTCOffset)
	if err != nil {
		return start, true
	}
	return start.In(loc), true
}

func awayYesterday(games []domaingames.Game, date string) map[string]bool {
	set := make(map[string]bool, len(games))
	for _, g := range games {
		if g.Date == date && g.AwayTeam.Name != "" {
			set[g.AwayTeam.Name] = true
		}
	}
	return set
}
