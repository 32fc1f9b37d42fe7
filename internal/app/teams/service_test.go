package teams

import (
	"testing"

	"nhl-travel-service/internal/domain/teams"
	"nhl-travel-service/internal/geo"
)

type stubDirectory struct {
	items []teams.HomeVenue
}

func (s stubDirectory) Teams() []teams.HomeVenue { return s.items }

func TestTeamsService(t *testing.T) {
	svc := NewService(stubDirectory{items: []teams.HomeVenue{
		{Team: "Jets", Venue: "Canada Life Centre", Coordinate: geo.Coordinate{Lat: 49.8951, Lon: -97.1384}},
		{Team: "Maple Leafs", Venue: "Scotiabank Arena"},
	}})

	if len(svc.Teams()) != 2 {
		t.Fatalf("expected teams from directory")
	}
	hv, ok := svc.HomeVenue(" maple leafs ")
	if !ok || hv.Venue != "Scotiabank Arena" {
		t.Fatalf("expected case-insensitive lookup, got %+v ok=%v", hv, ok)
	}
	if _, ok := svc.HomeVenue("Nordiques"); ok {
		t.Fatalf("expected unknown team to miss")
	}
}

func TestTeamsServiceNilDirectory(t *testing.T) {
	svc := NewService(nil)
	if got := svc.Teams(); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", got)
	}
	if got := NewService(stubDirectory{}).Teams(); got == nil {
		t.Fatalf("expected empty non-nil slice for empty directory")
	}
}
