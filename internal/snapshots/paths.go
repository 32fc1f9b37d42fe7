package snapshots

import (
	"fmt"
	"path/filepath"
)

const (
	gamesDir     = "games"
	manifestFile = "manifest.json"
)

// GameSnapshotPath builds the path to a schedule snapshot for a given date.
func GameSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, gamesDir, fmt.Sprintf("%s.json", date))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, manifestFile)
}
