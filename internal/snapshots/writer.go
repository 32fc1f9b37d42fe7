package snapshots

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"nhl-travel-service/internal/timeutil"
)

const defaultRetentionDays = 14

// Writer persists snapshots and the manifest, pruning dates older than the retention window.
type Writer struct {
	basePath      string
	retentionDays int
	now           func() time.Time
	mu            sync.Mutex
}

// NewWriter constructs a writer rooted at basePath with a rolling window retention.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = defaultRetentionDays
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// BasePath exposes the writer root path.
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteGamesSnapshot writes the snapshot for date and prunes old snapshots.
// Games are stored in the order received.
func (w *Writer) WriteGamesSnapshot(date string, snap Snapshot) error {
	if w == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(date) == "" {
		return errEmptyDate
	}
	if snap.Date == "" {
		snap.Date = date
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	target := GameSnapshotPath(w.basePath, date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return w.updateManifest(date)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		return err
	}

	return w.updateManifest(date)
}

func (w *Writer) updateManifest(date string) error {
	now := w.now()
	m, err := ReadManifest(w.basePath)
	if err != nil {
		m = defaultManifest(w.retentionDays, now)
	}

	dates, err := w.listDates()
	if err != nil {
		return err
	}
	if !slices.Contains(dates, date) {
		dates = append(dates, date)
	}

	m.Games.Dates = w.pruneOldSnapshots(dates, now)
	m.Games.LastRefreshed = now.UTC()
	m.Retention.GamesDays = w.retentionDays

	return writeManifest(w.basePath, m, now)
}

func (w *Writer) listDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.basePath, gamesDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldSnapshots(dates []string, now time.Time) []string {
	now = now.UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -w.retentionDays)
	keep := make([]string, 0, len(dates))
	for _, d := range dates {
		parsed, err := timeutil.ParseDate(d)
		if err == nil && parsed.Before(cutoff) {
			_ = os.Remove(GameSnapshotPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep
}
