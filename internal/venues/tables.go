package venues

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"nhl-travel-service/internal/domain/teams"
	"nhl-travel-service/internal/geo"
)

//go:embed venues.yaml
var defaultTablesYAML []byte

// ErrUnknownVenue is returned when a team's home venue is missing from the venue table.
var ErrUnknownVenue = errors.New("team home venue not in venue table")

type venueEntry struct {
	Name    string   `yaml:"name"`
	Lat     float64  `yaml:"lat"`
	Lon     float64  `yaml:"lon"`
	Aliases []string `yaml:"aliases"`
}

type tablesFile struct {
	Venues []venueEntry      `yaml:"venues"`
	Teams  map[string]string `yaml:"teams"`
}

// Tables holds the immutable venue→coordinate and team→home venue lookups.
// Keys are normalized; a Tables value is never mutated after Parse returns.
type Tables struct {
	coords map[string]geo.Coordinate
	homes  map[string]string
	roster []teams.HomeVenue
}

// Parse decodes a YAML document into lookup tables.
// Every team must reference a venue present in the same document.
func Parse(data []byte) (Tables, error) {
	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tables{}, fmt.Errorf("venues: decode tables: %w", err)
	}

	t := Tables{
		coords: make(map[string]geo.Coordinate, len(file.Venues)),
		homes:  make(map[string]string, len(file.Teams)),
	}
	for _, v := range file.Venues {
		key := normalize(v.Name)
		if key == "" {
			return Tables{}, errors.New("venues: venue entry without name")
		}
		coord := geo.Coordinate{Lat: v.Lat, Lon: v.Lon}
		t.coords[key] = coord
		for _, alias := range v.Aliases {
			if a := normalize(alias); a != "" {
				t.coords[a] = coord
			}
		}
	}
	for team, venue := range file.Teams {
		if _, ok := t.coords[normalize(venue)]; !ok {
			return Tables{}, fmt.Errorf("venues: %s -> %q: %w", team, venue, ErrUnknownVenue)
		}
		t.homes[normalize(team)] = normalize(venue)
		t.roster = append(t.roster, teams.HomeVenue{
			Team:       team,
			Venue:      venue,
			Coordinate: t.coords[normalize(venue)],
		})
	}
	sort.Slice(t.roster, func(i, j int) bool { return t.roster[i].Team < t.roster[j].Team })
	return t, nil
}

// Default returns the tables compiled into the binary.
func Default() (Tables, error) {
	return Parse(defaultTablesYAML)
}

// Load reads tables from path, falling back to the embedded defaults when path is empty.
func Load(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("venues: read %s: %w", path, err)
	}
	return Parse(data)
}

// Coordinate looks up a venue by display name or alias.
func (t Tables) Coordinate(venue string) (geo.Coordinate, bool) {
	c, ok := t.coords[normalize(venue)]
	return c, ok
}

// HomeVenueName returns the normalized home venue key for a team.
func (t Tables) HomeVenueName(team string) (string, bool) {
	v, ok := t.homes[normalize(team)]
	return v, ok
}

// VenueCount reports the number of venue names and aliases known.
func (t Tables) VenueCount() int {
	return len(t.coords)
}

// Teams lists every team and its home arena, sorted by team name.
func (t Tables) Teams() []teams.HomeVenue {
	return append([]teams.HomeVenue(nil), t.roster...)
}

// TeamCount reports the number of teams with a home venue.
func (t Tables) TeamCount() int {
	return len(t.homes)
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
