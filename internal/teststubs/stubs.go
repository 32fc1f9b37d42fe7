package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"nhl-travel-service/internal/cache"
	domaingames "nhl-travel-service/internal/domain/games"
)

// StubProvider is a test double for providers.ScheduleProvider.
// ByDate and ErrByDate take precedence over Games and Err for their dates.
type StubProvider struct {
	Games     []domaingames.Game
	Err       error
	ByDate    map[string][]domaingames.Game
	ErrByDate map[string]error
	Calls     atomic.Int32
	Notify    chan struct{}

	mu        sync.Mutex
	dates     []string
	refreshed []string
}

// FetchGames returns configured games and error while tracking calls.
func (s *StubProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx
	s.mu.Lock()
	s.dates = append(s.dates, date)
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Unlock()
	s.Calls.Add(1)

	if err, ok := s.ErrByDate[date]; ok {
		return nil, err
	}
	if games, ok := s.ByDate[date]; ok {
		return games, nil
	}
	if s.ByDate != nil && s.Err == nil {
		return []domaingames.Game{}, nil
	}
	return s.Games, s.Err
}

// Refresh behaves like FetchGames and records date as a forced refresh.
func (s *StubProvider) Refresh(ctx context.Context, date string) ([]domaingames.Game, error) {
	s.mu.Lock()
	s.refreshed = append(s.refreshed, date)
	s.mu.Unlock()
	return s.FetchGames(ctx, date)
}

// RefreshedDates returns the dates passed to Refresh, in call order.
func (s *StubProvider) RefreshedDates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refreshed...)
}

// Dates returns the dates requested so far, in call order.
func (s *StubProvider) Dates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.dates...)
}

// StubCache is an in-memory cache.Cache double with injectable failures.
type StubCache struct {
	GetErr error
	SetErr error

	mu    sync.Mutex
	items map[string][]byte
	TTLs  map[string]time.Duration
}

func (c *StubCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (c *StubCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.SetErr != nil {
		return c.SetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string][]byte)
		c.TTLs = make(map[string]time.Duration)
	}
	c.items[key] = append([]byte(nil), value...)
	c.TTLs[key] = ttl
	return nil
}

func (c *StubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Has reports whether key was stored.
func (c *StubCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put seeds a raw value.
func (c *StubCache) Put(key string, value []byte) {
	_ = c.Set(context.Background(), key, value, 0)
}

func (c *StubCache) Name() string { return "stub" }

func (c *StubCache) Close() error { return nil }

// ErrStub is a generic failure for tests.
var ErrStub = errors.New("stub failure")
