package server

import (
	"log/slog"
	"time"

	"nhl-travel-service/internal/cache"
	"nhl-travel-service/internal/config"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry + cache).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// providerStack is the assembled chain plus the pieces that need closing.
type providerStack struct {
	cached  *providers.CachingProvider
	cache   cache.Cache
	limiter interface{ Close() }
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config, base providers.ScheduleProvider, c cache.Cache, loc *time.Location) providerStack {
	name := normalizeProviderName(cfg.Provider, base)
	upstream := base
	var limiter interface{ Close() }
	if cfg.Retry.MinInterval > 0 {
		limited := providers.NewRateLimitedProvider(base, cfg.Retry.MinInterval, f.logger)
		limiter, _ = limited.(interface{ Close() })
		upstream = limited
	}
	upstream = providers.NewRetryingProvider(upstream, f.logger, f.metrics, name, cfg.Retry.Attempts, cfg.Retry.Backoff)

	policy := providers.TTLPolicy{
		Current:  cfg.Cache.TTL,
		Past:     cfg.Cache.PastTTL,
		Location: loc,
	}
	return providerStack{
		cached:  providers.NewCachingProvider(upstream, c, policy, f.metrics, f.logger),
		cache:   c,
		limiter: limiter,
	}
}

func (s providerStack) close() error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
