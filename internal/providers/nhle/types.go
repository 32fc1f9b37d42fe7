package nhle

import "encoding/json"

type scheduleResponse struct {
	GameWeek []gameDay `json:"gameWeek"`
}

type gameDay struct {
	Date  string            `json:"date"`
	Games []json.RawMessage `json:"games"`
}

type gameResponse struct {
	ID                int64        `json:"id"`
	Season            int64        `json:"season"`
	GameType          int          `json:"gameType"`
	Venue             localized    `json:"venue"`
	NeutralSite       bool         `json:"neutralSite"`
	StartTimeUTC      string       `json:"startTimeUTC"`
	VenueUTCOffset    string       `json:"venueUTCOffset"`
	GameState         string       `json:"gameState"`
	GameScheduleState string       `json:"gameScheduleState"`
	HomeTeam          teamResponse `json:"homeTeam"`
	AwayTeam          teamResponse `json:"awayTeam"`
}

type teamResponse struct {
	ID         int64     `json:"id"`
	CommonName localized `json:"commonName"`
	PlaceName  localized `json:"placeName"`
	Abbrev     string    `json:"abbrev"`
}

// localized is the API's {"default": "...", "fr": "..."} string shape.
type localized struct {
	Default string `json:"default"`
}
