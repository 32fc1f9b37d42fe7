package snapshots

import (
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
)

// Snapshot is one day's schedule as persisted on disk.
// A zero ExpiresAt never expires; retention pruning still applies.
type Snapshot struct {
	Date      string             `json:"date"`
	FetchedAt time.Time          `json:"fetchedAt"`
	ExpiresAt time.Time          `json:"expiresAt,omitempty"`
	Games     []domaingames.Game `json:"games"`
}

// Expired reports whether the snapshot is stale at now.
func (s Snapshot) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
