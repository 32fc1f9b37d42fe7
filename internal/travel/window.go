package travel

import (
	domaingames "nhl-travel-service/internal/domain/games"
)

// Window holds the schedule fetched for an inclusive date range.
// Failed lists dates whose fetch failed; those days hold no games.
type Window struct {
	Start  string
	End    string
	Dates  []string
	Days   map[string][]domaingames.Game
	Failed []string
}

// Games returns the games fetched for date.
func (w Window) Games(date string) []domaingames.Game {
	return w.Days[date]
}

// All returns every fetched game, days in ascending order and provider order within a day.
func (w Window) All() []domaingames.Game {
	var all []domaingames.Game
	for _, d := range w.Dates {
		all = append(all, w.Days[d]...)
	}
	return all
}

// Contains reports whether date falls inside the window.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}
