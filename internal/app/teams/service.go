package teams

import (
	"strings"

	"nhl-travel-service/internal/domain/teams"
)

// Directory lists teams and their home arenas.
type Directory interface {
	Teams() []teams.HomeVenue
}

// Service answers team and home arena lookups.
type Service struct {
	directory Directory
}

// NewService constructs a Service with the provided Directory.
func NewService(directory Directory) *Service {
	return &Service{directory: directory}
}

// Teams returns every known team with its home arena.
func (s *Service) Teams() []teams.HomeVenue {
	if s == nil || s.directory == nil {
		return []teams.HomeVenue{}
	}
	items := s.directory.Teams()
	if items == nil {
		return []teams.HomeVenue{}
	}
	return items
}

// HomeVenue returns a team's home arena, matching the name case-insensitively.
func (s *Service) HomeVenue(name string) (teams.HomeVenue, bool) {
	name = strings.TrimSpace(name)
	for _, hv := range s.Teams() {
		if strings.EqualFold(hv.Team, name) {
			return hv, true
		}
	}
	return teams.HomeVenue{}, false
}
