package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/domain/teams"
	"nhl-travel-service/internal/teststubs"
)

func fixedNow() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func TestPollerWarmsLookbackThroughTomorrow(t *testing.T) {
	g := domaingames.Game{
		ID:        "poll-game",
		Provider:  "stub",
		HomeTeam:  teams.Team{ID: "home", Name: "Jets"},
		AwayTeam:  teams.Team{ID: "away", Name: "Canucks"},
		StartTime: time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Status:    domaingames.StatusScheduled,
	}
	provider := &teststubs.StubProvider{
		Games:  []domaingames.Game{g},
		Notify: make(chan struct{}),
	}

	p := New(provider, nil, nil, Config{Interval: 10 * time.Millisecond, LookbackDays: 2})
	p.now = fixedNow

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	time.Sleep(30 * time.Millisecond) // allow at least one ticker fire

	cancel()
	_ = p.Stop(context.Background())

	if provider.Calls.Load() < 4 {
		t.Fatalf("expected at least one full window fetched, got %d calls", provider.Calls.Load())
	}
	refreshed := provider.RefreshedDates()
	if len(refreshed) < 2 || refreshed[0] != "2024-01-15" || refreshed[1] != "2024-01-16" {
		t.Fatalf("expected today and tomorrow refreshed, got %v", refreshed)
	}
}

func TestPollerWindowUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	p := New(&teststubs.StubProvider{}, nil, nil, Config{LookbackDays: 1, Location: loc})

	// 03:00 UTC on the 15th is still the 14th in Los Angeles.
	got := p.Window(time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC))
	want := []string{"2024-01-13", "2024-01-14", "2024-01-15"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPollerOnlyRefreshesCurrentDays(t *testing.T) {
	provider := &teststubs.StubProvider{Games: []domaingames.Game{}}
	p := New(provider, nil, nil, Config{LookbackDays: 3})
	p.now = fixedNow

	p.warmOnce(context.Background())

	wantFetched := []string{"2024-01-12", "2024-01-13", "2024-01-14", "2024-01-15", "2024-01-16"}
	if got := provider.Dates(); !reflect.DeepEqual(got, wantFetched) {
		t.Fatalf("expected %v, got %v", wantFetched, got)
	}
	if got := provider.RefreshedDates(); !reflect.DeepEqual(got, []string{"2024-01-15", "2024-01-16"}) {
		t.Fatalf("expected only today and tomorrow refreshed, got %v", got)
	}
	if p.Status().WarmDates != 5 {
		t.Fatalf("expected 5 warm dates, got %d", p.Status().WarmDates)
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	provider := &teststubs.StubProvider{
		Games:  []domaingames.Game{},
		Notify: make(chan struct{}),
	}

	p := New(provider, nil, nil, Config{Interval: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-provider.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial fetch")
	}

	cancel()
	_ = p.Stop(context.Background())

	time.Sleep(10 * time.Millisecond) // let an in-flight cycle finish
	callsAfterStop := provider.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if provider.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional fetches after stop; before=%d after=%d", callsAfterStop, provider.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubProvider{}, nil, nil, Config{Interval: time.Hour})

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubProvider{}, nil, nil, Config{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // should no-op

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaults(t *testing.T) {
	p := New(&teststubs.StubProvider{}, nil, nil, Config{LookbackDays: -4})
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
	if p.lookback != 0 {
		t.Fatalf("expected negative lookback clamped to 0, got %d", p.lookback)
	}
	if p.loc != time.UTC {
		t.Fatalf("expected UTC default location")
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(&teststubs.StubProvider{}, nil, nil, Config{Interval: time.Hour})
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	provider := &teststubs.StubProvider{
		Games: []domaingames.Game{},
		Err:   errors.New("boom"),
	}

	p := New(provider, nil, nil, Config{Interval: time.Millisecond})
	p.now = fixedNow
	ctx := context.Background()

	p.warmOnce(ctx)
	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	provider.Err = nil
	p.warmOnce(ctx)
	status = p.Status()
	if status.ConsecutiveFailures != 0 {
		t.Fatalf("expected failures reset, got %d", status.ConsecutiveFailures)
	}
	if status.LastSuccess.IsZero() {
		t.Fatalf("expected success timestamp")
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestPollerPartialFailureCountsAsFailure(t *testing.T) {
	provider := &teststubs.StubProvider{
		ByDate:    map[string][]domaingames.Game{},
		ErrByDate: map[string]error{"2024-01-14": errors.New("upstream 503")},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	p := New(provider, logger, nil, Config{LookbackDays: 1})
	p.now = fixedNow

	p.warmOnce(context.Background())

	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected failure recorded, got %+v", status)
	}
	if status.WarmDates != 2 {
		t.Fatalf("expected the other two days warm, got %d", status.WarmDates)
	}
}

func TestPollerNilSourceFails(t *testing.T) {
	p := New(nil, nil, nil, Config{})
	p.warmOnce(context.Background())
	if p.Status().ConsecutiveFailures != 1 {
		t.Fatalf("expected failure without source")
	}
}

func TestStatusIsReady(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "never succeeded", status: Status{}, want: false},
		{name: "recent success", status: Status{LastSuccess: fixedNow()}, want: true},
		{name: "failing after success", status: Status{LastSuccess: fixedNow(), ConsecutiveFailures: 3}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsReady(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func BenchmarkPollerWarmOnce(b *testing.B) {
	provider := &teststubs.StubProvider{
		Games: []domaingames.Game{
			{
				ID:        "bench-game",
				Provider:  "fixture",
				HomeTeam:  teams.Team{ID: "home", Name: "Jets"},
				AwayTeam:  teams.Team{ID: "away", Name: "Canucks"},
				StartTime: time.Date(2024, 1, 1, 19, 30, 0, 0, time.UTC).Format(time.RFC3339),
				Status:    domaingames.StatusFinal,
			},
		},
	}
	p := New(provider, nil, nil, Config{Interval: time.Second, LookbackDays: 3})
	p.now = fixedNow
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.warmOnce(ctx)
	}
}
