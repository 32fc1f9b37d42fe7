package snapshots

import (
	"encoding/json"
	"errors"
	"os"
)

// ErrNotConfigured is returned by nil stores and writers.
var ErrNotConfigured = errors.New("snapshot store not configured")

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadGames reads the snapshot for date (YYYY-MM-DD) from {basePath}/games/{date}.json.
// A missing file yields an error satisfying errors.Is(err, os.ErrNotExist).
func (s *FSStore) LoadGames(date string) (Snapshot, error) {
	if s == nil {
		return Snapshot{}, ErrNotConfigured
	}
	if date == "" {
		return Snapshot{}, errors.New("snapshot date required")
	}
	var snap Snapshot
	if err := decodeFile(GameSnapshotPath(s.basePath, date), &snap); err != nil {
		return Snapshot{}, err
	}
	if snap.Date == "" {
		snap.Date = date
	}
	return snap, nil
}

// HasSnapshot reports whether a snapshot file exists for date.
func (s *FSStore) HasSnapshot(date string) bool {
	if s == nil || date == "" {
		return false
	}
	_, err := os.Stat(GameSnapshotPath(s.basePath, date))
	return err == nil
}

// Remove deletes the snapshot for date; a missing file is not an error.
func (s *FSStore) Remove(date string) error {
	if s == nil {
		return ErrNotConfigured
	}
	err := os.Remove(GameSnapshotPath(s.basePath, date))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
