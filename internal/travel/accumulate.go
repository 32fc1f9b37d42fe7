package travel

import (
	"slices"
	"sort"

	domaintravel "nhl-travel-service/internal/domain/travel"
	"nhl-travel-service/internal/geo"
)

// SortLog returns a copy of log ordered by date, ties broken by game ID.
func SortLog(log []domaintravel.TeamGameEntry) []domaintravel.TeamGameEntry {
	sorted := slices.Clone(log)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].GameID < sorted[j].GameID
	})
	return sorted
}

// Accumulate returns the kilometers a team covered across its log.
// When the earliest game is away and home is known, the trip from home to it counts too.
func Accumulate(log []domaintravel.TeamGameEntry, home *geo.Coordinate) float64 {
	if len(log) == 0 {
		return 0
	}
	sorted := SortLog(log)

	total := 0.0
	if first := sorted[0]; !first.IsHome && home != nil {
		total += geo.DistanceBetween(*home, first.Coord)
	}
	for i := 1; i < len(sorted); i++ {
		total += geo.DistanceBetween(sorted[i-1].Coord, sorted[i].Coord)
	}
	return total
}
