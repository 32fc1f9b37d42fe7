package testutil

import (
	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/domain/teams"
)

// SampleGame returns a minimal resolvable game fixture with the provided id.
func SampleGame(id string) domaingames.Game {
	return domaingames.Game{
		ID:             id,
		Provider:       "test",
		Date:           "2024-01-01",
		HomeTeam:       teams.Team{ID: "52", Name: "Jets", PlaceName: "Winnipeg", Abbreviation: "WPG"},
		AwayTeam:       teams.Team{ID: "23", Name: "Canucks", PlaceName: "Vancouver", Abbreviation: "VAN"},
		Venue:          domaingames.Venue{Name: "Canada Life Centre"},
		StartTime:      "2024-01-02T01:00:00Z",
		VenueUTCOffset: "-06:00",
		Status:         domaingames.StatusScheduled,
		Meta:           domaingames.GameMeta{Season: "20232024", UpstreamGameID: 1},
	}
}

// SampleScheduleResponse builds a ScheduleResponse with a single sample game and date.
func SampleScheduleResponse(date string, id string) domaingames.ScheduleResponse {
	g := SampleGame(id)
	g.Date = date
	return domaingames.NewScheduleResponse(date, []domaingames.Game{g})
}

// RoadTrip returns a three-day slate: Jets home on 2024-01-01, at Montreal on 01-02,
// and at Vancouver on 01-03 (a night game on the second half of a back-to-back).
func RoadTrip() map[string][]domaingames.Game {
	game := func(id, date, home, away, venue, start, offset string) domaingames.Game {
		return domaingames.Game{
			ID:             id,
			Provider:       "test",
			Date:           date,
			HomeTeam:       teams.Team{Name: home},
			AwayTeam:       teams.Team{Name: away},
			Venue:          domaingames.Venue{Name: venue},
			StartTime:      start,
			VenueUTCOffset: offset,
			Status:         domaingames.StatusScheduled,
		}
	}
	return map[string][]domaingames.Game{
		"2024-01-01": {game("1", "2024-01-01", "Jets", "Kings", "Canada Life Centre", "2024-01-02T01:00:00Z", "-06:00")},
		"2024-01-02": {game("2", "2024-01-02", "Canadiens", "Jets", "Centre Bell", "2024-01-03T00:00:00Z", "-05:00")},
		"2024-01-03": {game("3", "2024-01-03", "Canucks", "Jets", "Rogers Arena", "2024-01-04T03:00:00Z", "-08:00")},
	}
}
