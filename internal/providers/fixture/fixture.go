package fixture

import (
	"context"
	"fmt"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/domain/teams"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/timeutil"
)

const (
	providerName   = "fixture"
	gamesPerDay    = 4
	matineeSlot    = 3
	eveningHour    = 19
	matineeHour    = 13
	fixtureSeason  = "2023-2024"
	upstreamIDBase = 2023020000
)

type fixtureTeam struct {
	team   teams.Team
	arena  string
	offset string
}

// roster is a fixed subset of the league spread across all four time zones.
var roster = []fixtureTeam{
	{teams.Team{ID: "52", Name: "Jets", PlaceName: "Winnipeg", Abbreviation: "WPG"}, "Canada Life Centre", "-06:00"},
	{teams.Team{ID: "8", Name: "Canadiens", PlaceName: "Montréal", Abbreviation: "MTL"}, "Centre Bell", "-05:00"},
	{teams.Team{ID: "23", Name: "Canucks", PlaceName: "Vancouver", Abbreviation: "VAN"}, "Rogers Arena", "-08:00"},
	{teams.Team{ID: "6", Name: "Bruins", PlaceName: "Boston", Abbreviation: "BOS"}, "TD Garden", "-05:00"},
	{teams.Team{ID: "10", Name: "Maple Leafs", PlaceName: "Toronto", Abbreviation: "TOR"}, "Scotiabank Arena", "-05:00"},
	{teams.Team{ID: "22", Name: "Oilers", PlaceName: "Edmonton", Abbreviation: "EDM"}, "Rogers Place", "-07:00"},
	{teams.Team{ID: "25", Name: "Stars", PlaceName: "Dallas", Abbreviation: "DAL"}, "American Airlines Center", "-06:00"},
	{teams.Team{ID: "13", Name: "Panthers", PlaceName: "Florida", Abbreviation: "FLA"}, "Amerant Bank Arena", "-05:00"},
	{teams.Team{ID: "54", Name: "Golden Knights", PlaceName: "Vegas", Abbreviation: "VGK"}, "T-Mobile Arena", "-08:00"},
	{teams.Team{ID: "16", Name: "Blackhawks", PlaceName: "Chicago", Abbreviation: "CHI"}, "United Center", "-06:00"},
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Provider returns a deterministic rotating schedule useful for local runs and demos.
// Every date maps to the same games on every call.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// FetchGames returns the fixture games for date using a round-robin rotation.
func (p *Provider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, &providers.ProviderError{Provider: providerName, Date: date, Err: providers.ErrInvalidDate}
	}

	dayIndex := int(day.Sub(epoch).Hours() / 24)
	pairs := roundRobin(len(roster), mod(dayIndex, len(roster)-1))

	games := make([]domaingames.Game, 0, gamesPerDay)
	for slot := 0; slot < gamesPerDay && slot < len(pairs); slot++ {
		a, b := pairs[slot][0], pairs[slot][1]
		if mod(dayIndex+slot, 2) == 1 {
			a, b = b, a
		}
		home, away := roster[a], roster[b]

		hour := eveningHour
		if slot == matineeSlot {
			hour = matineeHour
		}
		start, err := localStart(day, hour, home.offset)
		if err != nil {
			return nil, err
		}

		upstreamID := int64(upstreamIDBase + mod(dayIndex, 10000)*gamesPerDay + slot)
		games = append(games, domaingames.Game{
			ID:             fmt.Sprintf("%d", upstreamID),
			Provider:       providerName,
			Date:           date,
			HomeTeam:       home.team,
			AwayTeam:       away.team,
			Venue:          domaingames.Venue{Name: home.arena},
			StartTime:      start,
			VenueUTCOffset: home.offset,
			Status:         domaingames.StatusScheduled,
			Meta:           domaingames.GameMeta{Season: fixtureSeason, UpstreamGameID: upstreamID, GameType: 2},
		})
	}
	return games, nil
}

// roundRobin returns the pairings of round r for n teams (n even) by the circle method.
func roundRobin(n, r int) [][2]int {
	order := make([]int, n)
	order[0] = 0
	for i := 1; i < n; i++ {
		order[i] = 1 + mod(i-1+r, n-1)
	}
	pairs := make([][2]int, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, [2]int{order[i], order[n-1-i]})
	}
	return pairs
}

func localStart(day time.Time, hour int, offset string) (string, error) {
	zone, err := timeutil.FixedZone(offset)
	if err != nil {
		return "", fmt.Errorf("fixture: %w", err)
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, zone)
	return local.UTC().Format(time.RFC3339), nil
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
