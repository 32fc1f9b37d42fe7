package testutil

import (
	"testing"
	"time"

	"nhl-travel-service/internal/app/games"
	"nhl-travel-service/internal/app/picks"
	"nhl-travel-service/internal/app/teams"
	"nhl-travel-service/internal/matchups"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/travel"
	"nhl-travel-service/internal/venues"
)

// Services bundles the app services built over one provider.
type Services struct {
	Games *games.Service
	Picks *picks.Service
	Teams *teams.Service
}

// NewServices wires the default venue tables, travel aggregator, ranker, and app services
// around provider with the clock fixed at now (UTC schedule timezone).
func NewServices(t testing.TB, provider providers.ScheduleProvider, now time.Time) Services {
	t.Helper()
	tables, err := venues.Default()
	if err != nil {
		t.Fatalf("venue tables: %v", err)
	}
	agg := travel.NewAggregator(provider, venues.NewResolver(tables), travel.AggregatorConfig{})
	ranker := matchups.NewRanker(agg, nil)
	return Services{
		Games: games.NewService(provider),
		Picks: picks.NewService(ranker, agg, picks.Config{
			LookbackDays:   matchups.DefaultLookbackDays,
			NightStartHour: matchups.DefaultNightStart,
			Now:            NowAt(now),
		}),
		Teams: teams.NewService(tables),
	}
}
