package games

import (
	"encoding/json"

	"nhl-travel-service/internal/domain/teams"
	"nhl-travel-service/internal/geo"
)

// GameStatus mirrors the shared contract for game lifecycle states.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
	StatusPostponed  GameStatus = "POSTPONED"
	StatusCanceled   GameStatus = "CANCELED"
)

// Venue names the arena and, when the provider supplies it, its coordinate.
type Venue struct {
	Name       string          `json:"name"`
	Coordinate *geo.Coordinate `json:"coordinate,omitempty"`
}

// GameMeta stores provider metadata for a game.
type GameMeta struct {
	Season         string `json:"season,omitempty"`
	UpstreamGameID int64  `json:"upstreamGameId,omitempty"`
	GameType       int    `json:"gameType,omitempty"`
	NeutralSite    bool   `json:"neutralSite,omitempty"`
}

// Game is one scheduled game as reported for a single calendar date.
// Date is the schedule date (YYYY-MM-DD); StartTime is RFC3339 in UTC.
// VenueUTCOffset is the venue's offset from UTC formatted as ±HH:MM, empty when unknown.
type Game struct {
	ID             string          `json:"id"`
	Provider       string          `json:"provider"`
	Date           string          `json:"date"`
	HomeTeam       teams.Team      `json:"homeTeam"`
	AwayTeam       teams.Team      `json:"awayTeam"`
	Venue          Venue           `json:"venue"`
	StartTime      string          `json:"startTime"`
	VenueUTCOffset string          `json:"venueUtcOffset,omitempty"`
	Status         GameStatus      `json:"status"`
	Meta           GameMeta        `json:"meta"`
	Raw            json.RawMessage `json:"raw,omitempty"`
}

// ScheduleResponse is the payload returned by /games?date=YYYY-MM-DD.
type ScheduleResponse struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// NewScheduleResponse builds a ScheduleResponse payload.
func NewScheduleResponse(date string, games []Game) ScheduleResponse {
	if games == nil {
		games = []Game{}
	}
	return ScheduleResponse{
		Date:  date,
		Games: games,
	}
}
