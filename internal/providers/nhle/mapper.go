package nhle

import (
	"encoding/json"
	"strconv"
	"strings"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/domain/teams"
)

func mapGame(date string, g gameResponse, raw json.RawMessage) domaingames.Game {
	return domaingames.Game{
		ID:             strconv.FormatInt(g.ID, 10),
		Provider:       providerName,
		Date:           date,
		HomeTeam:       mapTeam(g.HomeTeam),
		AwayTeam:       mapTeam(g.AwayTeam),
		Venue:          domaingames.Venue{Name: strings.TrimSpace(g.Venue.Default)},
		StartTime:      strings.TrimSpace(g.StartTimeUTC),
		VenueUTCOffset: strings.TrimSpace(g.VenueUTCOffset),
		Status:         mapStatus(g.GameState, g.GameScheduleState),
		Meta: domaingames.GameMeta{
			Season:         formatSeason(g.Season),
			UpstreamGameID: g.ID,
			GameType:       g.GameType,
			NeutralSite:    g.NeutralSite,
		},
		Raw: raw,
	}
}

func mapTeam(t teamResponse) teams.Team {
	var id string
	if t.ID > 0 {
		id = strconv.FormatInt(t.ID, 10)
	}
	return teams.Team{
		ID:           id,
		Name:         strings.TrimSpace(t.CommonName.Default),
		PlaceName:    strings.TrimSpace(t.PlaceName.Default),
		Abbreviation: t.Abbrev,
	}
}

func mapStatus(gameState, scheduleState string) domaingames.GameStatus {
	switch strings.ToUpper(scheduleState) {
	case "PPD", "SUSP":
		return domaingames.StatusPostponed
	case "CNCL":
		return domaingames.StatusCanceled
	}
	switch strings.ToUpper(gameState) {
	case "LIVE", "CRIT":
		return domaingames.StatusInProgress
	case "FINAL", "OFF":
		return domaingames.StatusFinal
	default:
		return domaingames.StatusScheduled
	}
}

// formatSeason renders 20232024 as "2023-2024".
func formatSeason(season int64) string {
	if season <= 0 {
		return ""
	}
	s := strconv.FormatInt(season, 10)
	if len(s) == 8 {
		return s[:4] + "-" + s[4:]
	}
	return s
}
