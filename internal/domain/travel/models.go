package travel

import "nhl-travel-service/internal/geo"

// TeamGameEntry is one team's participation in one game.
type TeamGameEntry struct {
	GameID string         `json:"gameId"`
	Date   string         `json:"date"`
	Coord  geo.Coordinate `json:"coordinate"`
	IsHome bool           `json:"isHome"`
}

// TravelResult maps team name to kilometers traveled within a lookback window.
type TravelResult map[string]float64

// Matchup is a ranked game where the away team carries a travel burden.
// JSON keys follow the contract consumed by the picks UI.
type Matchup struct {
	GameID         string   `json:"game_id"`
	Date           string   `json:"game_date"`
	HomeTeam       string   `json:"home_team"`
	AwayTeam       string   `json:"away_team"`
	AwayTravel     float64  `json:"away_travel"`
	HomeTravel     *float64 `json:"home_travel,omitempty"`
	LocalStartTime string   `json:"local_start_time"`
}

// TravelResponse is the payload returned by /travel.
type TravelResponse struct {
	Date         string       `json:"date"`
	LookbackDays int          `json:"lookback_days"`
	Travel       TravelResult `json:"travel"`
}
