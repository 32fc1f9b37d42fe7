package providers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/teststubs"
)

func fixedPolicy() TTLPolicy {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	return TTLPolicy{
		Current:  time.Minute,
		Past:     time.Hour,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
}

func TestTTLPolicyTTLFor(t *testing.T) {
	p := fixedPolicy()
	cases := map[string]time.Duration{
		"2024-01-09": time.Hour,
		"2024-01-10": time.Minute,
		"2024-01-11": time.Minute,
	}
	for date, want := range cases {
		if got := p.TTLFor(date); got != want {
			t.Fatalf("TTLFor(%s) = %s, want %s", date, got, want)
		}
	}
}

func TestCachingProviderMissThenHit(t *testing.T) {
	stub := &teststubs.StubProvider{Games: []domaingames.Game{{ID: "g1"}}}
	c := &teststubs.StubCache{}
	rec := metrics.NewRecorder()
	p := NewCachingProvider(stub, c, fixedPolicy(), rec, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		games, err := p.FetchGames(ctx, "2024-01-09")
		if err != nil || len(games) != 1 || games[0].ID != "g1" {
			t.Fatalf("unexpected result %+v %v", games, err)
		}
	}
	if stub.Calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", stub.Calls.Load())
	}
	if rec.CacheHits("stub") != 1 || rec.CacheMisses("stub") != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", rec.CacheHits("stub"), rec.CacheMisses("stub"))
	}
	if c.TTLs["2024-01-09"] != time.Hour {
		t.Fatalf("expected past ttl, got %s", c.TTLs["2024-01-09"])
	}
}

func TestCachingProviderCachesEmptyDaysButNotErrors(t *testing.T) {
	stub := &teststubs.StubProvider{
		ByDate:    map[string][]domaingames.Game{},
		ErrByDate: map[string]error{"2024-01-11": teststubs.ErrStub},
	}
	c := &teststubs.StubCache{}
	p := NewCachingProvider(stub, c, fixedPolicy(), nil, nil)
	ctx := context.Background()

	games, err := p.FetchGames(ctx, "2024-01-10")
	if err != nil || games == nil || len(games) != 0 {
		t.Fatalf("expected empty day, got %v %v", games, err)
	}
	if !c.Has("2024-01-10") {
		t.Fatalf("expected empty day cached")
	}
	if _, err := p.FetchGames(ctx, "2024-01-11"); !errors.Is(err, teststubs.ErrStub) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if c.Has("2024-01-11") {
		t.Fatalf("expected failed day not cached")
	}
}

func TestCachingProviderFallsThroughOnCacheErrors(t *testing.T) {
	stub := &teststubs.StubProvider{Games: []domaingames.Game{{ID: "g1"}}}
	c := &teststubs.StubCache{GetErr: errors.New("conn refused"), SetErr: errors.New("conn refused")}
	p := NewCachingProvider(stub, c, fixedPolicy(), nil, nil)

	games, err := p.FetchGames(context.Background(), "2024-01-10")
	if err != nil || len(games) != 1 {
		t.Fatalf("expected upstream result despite cache failure, got %v %v", games, err)
	}
}

func TestCachingProviderDropsCorruptEntries(t *testing.T) {
	stub := &teststubs.StubProvider{Games: []domaingames.Game{{ID: "fresh"}}}
	c := &teststubs.StubCache{}
	c.Put("2024-01-10", []byte("{not json"))
	p := NewCachingProvider(stub, c, fixedPolicy(), nil, nil)

	games, err := p.FetchGames(context.Background(), "2024-01-10")
	if err != nil || len(games) != 1 || games[0].ID != "fresh" {
		t.Fatalf("expected refetch after corrupt entry, got %v %v", games, err)
	}
}

type blockingProvider struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return []domaingames.Game{{ID: date}}, nil
}

func TestCachingProviderCoalescesConcurrentMisses(t *testing.T) {
	bp := &blockingProvider{release: make(chan struct{})}
	p := NewCachingProvider(bp, &teststubs.StubCache{}, fixedPolicy(), nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.FetchGames(context.Background(), "2024-01-10")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(bp.release)
	wg.Wait()

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.calls != 1 {
		t.Fatalf("expected coalesced upstream call, got %d", bp.calls)
	}
}

func TestCachingProviderSharedFetchSurvivesCallerCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	upstream := ProviderFunc(func(ctx context.Context, date string) ([]domaingames.Game, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return []domaingames.Game{{ID: "g1"}}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	c := &teststubs.StubCache{}
	p := NewCachingProvider(upstream, c, fixedPolicy(), nil, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := p.FetchGames(ctxA, "2024-01-10")
		errA <- err
	}()
	<-started

	type result struct {
		games []domaingames.Game
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		games, err := p.FetchGames(context.Background(), "2024-01-10")
		resB <- result{games, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to return context.Canceled, got %v", err)
	}
	close(release)

	got := <-resB
	if got.err != nil || len(got.games) != 1 || got.games[0].ID != "g1" {
		t.Fatalf("expected live caller to receive games, got %+v %v", got.games, got.err)
	}
	if !c.Has("2024-01-10") {
		t.Fatalf("expected shared fetch stored in cache")
	}
}

func TestCachingProviderRefreshOverwrites(t *testing.T) {
	stub := &teststubs.StubProvider{Games: []domaingames.Game{{ID: "new"}}}
	c := &teststubs.StubCache{}
	c.Put("2024-01-10", []byte(`[{"id":"old"}]`))
	p := NewCachingProvider(stub, c, fixedPolicy(), nil, nil)
	ctx := context.Background()

	if _, err := p.Refresh(ctx, "2024-01-10"); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	games, _ := p.FetchGames(ctx, "2024-01-10")
	if len(games) != 1 || games[0].ID != "new" {
		t.Fatalf("expected refreshed entry, got %+v", games)
	}
}

func TestCachingProviderWithoutCacheDelegates(t *testing.T) {
	stub := &teststubs.StubProvider{Games: []domaingames.Game{{ID: "g1"}}}
	p := NewCachingProvider(stub, nil, fixedPolicy(), nil, nil)
	for i := 0; i < 2; i++ {
		_, _ = p.FetchGames(context.Background(), "2024-01-10")
	}
	if stub.Calls.Load() != 2 {
		t.Fatalf("expected passthrough calls, got %d", stub.Calls.Load())
	}
}
