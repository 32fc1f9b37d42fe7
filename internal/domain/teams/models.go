package teams

import "nhl-travel-service/internal/geo"

// Team represents the normalized team shape for use inside games.
// Name is the common name ("Jets") and is the key used for travel and venue lookups.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlaceName    string `json:"placeName,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// FullName joins place and common name when both are known.
func (t Team) FullName() string {
	if t.PlaceName == "" {
		return t.Name
	}
	if t.Name == "" {
		return t.PlaceName
	}
	return t.PlaceName + " " + t.Name
}

// HomeVenue pairs a team with its home arena.
type HomeVenue struct {
	Team       string         `json:"team"`
	Venue      string         `json:"venue"`
	Coordinate geo.Coordinate `json:"coordinate"`
}
