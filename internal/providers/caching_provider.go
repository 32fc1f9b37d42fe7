package providers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"nhl-travel-service/internal/cache"
	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/timeutil"
)

// TTLPolicy picks a cache lifetime per schedule date.
// Dates strictly before today (in Location) are settled and use Past; others use Current.
type TTLPolicy struct {
	Current  time.Duration
	Past     time.Duration
	Location *time.Location
	Now      func() time.Time
}

// TTLFor returns the lifetime for a cached schedule day.
func (p TTLPolicy) TTLFor(date string) time.Duration {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	today := timeutil.Today(now(), p.Location)
	// YYYY-MM-DD strings order chronologically.
	if date < today {
		return p.Past
	}
	return p.Current
}

// CachingProvider serves schedule days from a cache, fetching and storing on miss.
// Concurrent misses for the same date share one upstream fetch. Failed fetches are not cached.
type CachingProvider struct {
	next     ScheduleProvider
	cache    cache.Cache
	policy   TTLPolicy
	recorder *metrics.Recorder
	logger   *slog.Logger
	group    singleflight.Group
}

// NewCachingProvider wraps next with the given cache.
func NewCachingProvider(next ScheduleProvider, c cache.Cache, policy TTLPolicy, recorder *metrics.Recorder, logger *slog.Logger) *CachingProvider {
	return &CachingProvider{
		next:     next,
		cache:    c,
		policy:   policy,
		recorder: recorder,
		logger:   logger,
	}
}

func (p *CachingProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	if p.cache == nil {
		return p.next.FetchGames(ctx, date)
	}

	if games, ok := p.lookup(ctx, date); ok {
		return games, nil
	}

	// The shared fetch outlives any single caller; each caller waits on its own context.
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(date, func() (any, error) {
		games, err := p.next.FetchGames(shared, date)
		if err != nil {
			return nil, err
		}
		p.store(shared, date, games)
		return games, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domaingames.Game), nil
	}
}

// Refresh bypasses the cache for date and overwrites the cached entry.
func (p *CachingProvider) Refresh(ctx context.Context, date string) ([]domaingames.Game, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	games, err := p.next.FetchGames(ctx, date)
	if err != nil {
		return nil, err
	}
	if p.cache != nil {
		p.store(ctx, date, games)
	}
	return games, nil
}

func (p *CachingProvider) lookup(ctx context.Context, date string) ([]domaingames.Game, bool) {
	data, err := p.cache.Get(ctx, date)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logging.Warn(logging.FromContext(ctx, p.logger), "schedule cache read failed",
				slog.String(logging.FieldBackend, p.cache.Name()),
				slog.String(logging.FieldDate, date),
				slog.Any("err", err),
			)
		}
		p.recorder.RecordCacheLookup(p.cache.Name(), false)
		return nil, false
	}

	var games []domaingames.Game
	if err := json.Unmarshal(data, &games); err != nil {
		logging.Warn(logging.FromContext(ctx, p.logger), "schedule cache entry corrupt",
			slog.String(logging.FieldBackend, p.cache.Name()),
			slog.String(logging.FieldDate, date),
			slog.Any("err", err),
		)
		_ = p.cache.Delete(ctx, date)
		p.recorder.RecordCacheLookup(p.cache.Name(), false)
		return nil, false
	}
	if games == nil {
		games = []domaingames.Game{}
	}
	p.recorder.RecordCacheLookup(p.cache.Name(), true)
	return games, true
}

func (p *CachingProvider) store(ctx context.Context, date string, games []domaingames.Game) {
	if games == nil {
		games = []domaingames.Game{}
	}
	data, err := json.Marshal(games)
	if err == nil {
		err = p.cache.Set(ctx, date, data, p.policy.TTLFor(date))
	}
	if err != nil {
		logging.Warn(logging.FromContext(ctx, p.logger), "schedule cache write failed",
			slog.String(logging.FieldBackend, p.cache.Name()),
			slog.String(logging.FieldDate, date),
			slog.Any("err", err),
		)
	}
}
