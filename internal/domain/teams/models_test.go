package teams

import "testing"

func TestFullName(t *testing.T) {
	tests := []struct {
		team Team
		want string
	}{
		{Team{Name: "Jets", PlaceName: "Winnipeg"}, "Winnipeg Jets"},
		{Team{Name: "Jets"}, "Jets"},
		{Team{PlaceName: "Winnipeg"}, "Winnipeg"},
		{Team{}, ""},
	}
	for _, tc := range tests {
		if got := tc.team.FullName(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
