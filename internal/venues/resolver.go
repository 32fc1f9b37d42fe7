package venues

import (
	"math"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/geo"
)

// Resolver maps games and teams to coordinates using injected tables.
type Resolver struct {
	tables Tables
}

// NewResolver constructs a Resolver over tables.
func NewResolver(tables Tables) *Resolver {
	return &Resolver{tables: tables}
}

// Resolve returns the venue coordinate for a game.
// Provider-supplied coordinates win, then the venue name table; otherwise the game is unresolved.
func (r *Resolver) Resolve(g domaingames.Game) (geo.Coordinate, bool) {
	if c := g.Venue.Coordinate; c != nil && !math.IsNaN(c.Lat) && !math.IsNaN(c.Lon) {
		return *c, true
	}
	if r == nil || g.Venue.Name == "" {
		return geo.Coordinate{}, false
	}
	return r.tables.Coordinate(g.Venue.Name)
}

// HomeVenue returns the coordinate of a team's home arena.
func (r *Resolver) HomeVenue(team string) (geo.Coordinate, bool) {
	if r == nil {
		return geo.Coordinate{}, false
	}
	venue, ok := r.tables.HomeVenueName(team)
	if !ok {
		return geo.Coordinate{}, false
	}
	return r.tables.Coordinate(venue)
}
