package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("nhle", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("nhle", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("nhle"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("nhle"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("nhle"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("nhle")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("nhle", 5*time.Second)
	rec.RecordRateLimit("nhle", 0)

	if got := rec.RateLimitHits("nhle"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("nhle"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksCacheLookups(t *testing.T) {
	rec := NewRecorder()
	rec.RecordCacheLookup("memory", true)
	rec.RecordCacheLookup("memory", false)
	rec.RecordCacheLookup("memory", false)

	if rec.CacheHits("memory") != 1 || rec.CacheMisses("memory") != 2 {
		t.Fatalf("unexpected cache stats hits=%d misses=%d", rec.CacheHits("memory"), rec.CacheMisses("memory"))
	}
	if rec.CacheHits("redis") != 0 {
		t.Fatalf("expected untouched backend to be zero")
	}
}

func TestRecorderTracksSkipsAndDayFailures(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSkippedRecords("unresolved_venue", 2)
	rec.RecordSkippedRecords("unresolved_venue", 0)
	rec.RecordSkippedRecords("missing_team", 1)
	rec.RecordDayFetchFailure()

	if got := rec.SkippedRecords("unresolved_venue"); got != 2 {
		t.Fatalf("expected 2 skipped, got %d", got)
	}
	if got := rec.SkippedRecords("missing_team"); got != 1 {
		t.Fatalf("expected 1 skipped, got %d", got)
	}
	if got := rec.DayFetchFailures(); got != 1 {
		t.Fatalf("expected 1 day failure, got %d", got)
	}
}

func TestRecorderNilSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("nhle", time.Millisecond, nil)
	rec.RecordRateLimit("nhle", time.Second)
	rec.RecordCacheLookup("memory", true)
	rec.RecordSkippedRecords("x", 1)
	rec.RecordDayFetchFailure()
	rec.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	rec.RecordPollerCycle(time.Millisecond, nil)
	if rec.ProviderCalls("nhle") != 0 || rec.CacheHits("memory") != 0 || rec.DayFetchFailures() != 0 {
		t.Fatalf("expected zero values from nil recorder")
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	rec := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.RecordProviderAttempt("nhle", time.Millisecond, nil)
			rec.RecordCacheLookup("memory", true)
		}()
	}
	wg.Wait()
	if rec.ProviderCalls("nhle") != 20 || rec.CacheHits("memory") != 20 {
		t.Fatalf("expected 20 calls and hits, got %d/%d", rec.ProviderCalls("nhle"), rec.CacheHits("memory"))
	}
}
