package travel

import (
	domaingames "nhl-travel-service/internal/domain/games"
	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/geo"
)

// SkipReason explains why a (game, side) pair produced no log entry.
type SkipReason string

const (
	SkipMissingTeam     SkipReason = "missing_team"
	SkipMissingDate     SkipReason = "missing_date"
	SkipUnresolvedVenue SkipReason = "unresolved_venue"
)

// Resolver maps games and teams to coordinates.
type Resolver interface {
	Resolve(g domaingames.Game) (geo.Coordinate, bool)
	HomeVenue(team string) (geo.Coordinate, bool)
}

// Result is the outcome of extracting one side of one game.
// Skip is empty when Entry is valid.
type Result struct {
	Team  string
	Entry domaintravel.TeamGameEntry
	Skip  SkipReason
}

// OK reports whether the result carries an entry.
func (r Result) OK() bool {
	return r.Skip == ""
}

// Logs holds per-team entries in input order plus skip counts by reason.
type Logs struct {
	ByTeam  map[string][]domaintravel.TeamGameEntry
	Skipped map[SkipReason]int
}

// SideResults extracts the home and away results for a game.
// A missing team name skips only its side; a missing date or unresolved venue skips both.
func SideResults(g domaingames.Game, resolver Resolver) [2]Result {
	home := Result{Team: g.HomeTeam.Name}
	away := Result{Team: g.AwayTeam.Name}

	var shared SkipReason
	var coord geo.Coordinate
	if g.Date == "" {
		shared = SkipMissingDate
	} else if c, ok := resolve(resolver, g); ok {
		coord = c
	} else {
		shared = SkipUnresolvedVenue
	}

	sides := [2]Result{home, away}
	for i := range sides {
		switch {
		case sides[i].Team == "":
			sides[i].Skip = SkipMissingTeam
		case shared != "":
			sides[i].Skip = shared
		default:
			sides[i].Entry = domaintravel.TeamGameEntry{
				GameID: g.ID,
				Date:   g.Date,
				Coord:  coord,
				IsHome: i == 0,
			}
		}
	}
	return sides
}

// BuildLogs groups entries by team in input order. It does not sort.
func BuildLogs(games []domaingames.Game, resolver Resolver) Logs {
	logs := Logs{
		ByTeam:  make(map[string][]domaintravel.TeamGameEntry),
		Skipped: make(map[SkipReason]int),
	}
	for _, g := range games {
		for _, r := range SideResults(g, resolver) {
			if !r.OK() {
				logs.Skipped[r.Skip]++
				continue
			}
			logs.ByTeam[r.Team] = append(logs.ByTeam[r.Team], r.Entry)
		}
	}
	return logs
}

func resolve(resolver Resolver, g domaingames.Game) (geo.Coordinate, bool) {
	if resolver == nil {
		if c := g.Venue.Coordinate; c != nil {
			return *c, true
		}
		return geo.Coordinate{}, false
	}
	return resolver.Resolve(g)
}
