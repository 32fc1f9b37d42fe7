package snapshots

import (
	"os"
	"testing"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
)

func simpleSnapshot(date string) Snapshot {
	return Snapshot{
		Date:  date,
		Games: []domaingames.Game{{ID: date}},
	}
}

func fixedWriter(t *testing.T, retention int, now time.Time) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), retention)
	w.now = func() time.Time { return now }
	return w
}

func writeSimpleSnapshot(t *testing.T, w *Writer, date string) {
	t.Helper()
	if err := w.WriteGamesSnapshot(date, simpleSnapshot(date)); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func requireSnapshotExists(t *testing.T, w *Writer, date string) {
	t.Helper()
	if _, err := os.Stat(GameSnapshotPath(w.BasePath(), date)); err != nil {
		t.Fatalf("expected snapshot for %s to be written: %v", date, err)
	}
}

func assertDatesEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("dates length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("dates mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
