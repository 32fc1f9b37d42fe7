package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/snapshots"
	"nhl-travel-service/internal/timeutil"
)

// SnapshotCache persists schedule days as on-disk snapshots.
// Keys must be YYYY-MM-DD dates and values JSON-encoded game lists.
type SnapshotCache struct {
	writer *snapshots.Writer
	store  *snapshots.FSStore
	now    func() time.Time
}

// NewSnapshotCache wraps a snapshot writer/store pair rooted at the same directory.
func NewSnapshotCache(writer *snapshots.Writer, store *snapshots.FSStore) *SnapshotCache {
	return &SnapshotCache{writer: writer, store: store, now: time.Now}
}

func (c *SnapshotCache) Get(_ context.Context, key string) ([]byte, error) {
	if _, err := timeutil.ParseDate(key); err != nil {
		return nil, fmt.Errorf("cache: snapshot key %q: %w", key, err)
	}
	snap, err := c.store.LoadGames(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if snap.Expired(c.now()) {
		return nil, ErrMiss
	}
	games := snap.Games
	if games == nil {
		games = []domaingames.Game{}
	}
	return json.Marshal(games)
}

func (c *SnapshotCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if _, err := timeutil.ParseDate(key); err != nil {
		return fmt.Errorf("cache: snapshot key %q: %w", key, err)
	}
	var games []domaingames.Game
	if err := json.Unmarshal(value, &games); err != nil {
		return fmt.Errorf("cache: decode snapshot value: %w", err)
	}
	now := c.now().UTC()
	snap := snapshots.Snapshot{Date: key, FetchedAt: now, Games: games}
	if ttl > 0 {
		snap.ExpiresAt = now.Add(ttl)
	}
	return c.writer.WriteGamesSnapshot(key, snap)
}

func (c *SnapshotCache) Delete(_ context.Context, key string) error {
	return c.store.Remove(key)
}

func (c *SnapshotCache) Name() string { return BackendFS }

func (c *SnapshotCache) Close() error { return nil }
