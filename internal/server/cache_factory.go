package server

import (
	"context"
	"log/slog"

	"nhl-travel-service/internal/cache"
	"nhl-travel-service/internal/config"
	"nhl-travel-service/internal/logging"
)

// buildCache opens the configured schedule cache. A backend that cannot be reached
// falls back to the in-memory cache so the service still starts.
func buildCache(ctx context.Context, cfg config.Config, logger *slog.Logger) cache.Cache {
	c, err := cache.New(ctx, cache.Config{
		Backend:       cfg.Cache.Backend,
		RedisURL:      cfg.Cache.RedisURL,
		ValkeyAddr:    cfg.Cache.ValkeyAddr,
		SnapshotDir:   cfg.Cache.SnapshotDir,
		RetentionDays: cfg.Cache.RetentionDays,
	})
	if err != nil {
		logging.Warn(logger, "schedule cache unavailable, using memory",
			slog.String(logging.FieldBackend, cfg.Cache.Backend),
			slog.Any("err", err),
		)
		return cache.NewMemoryCache()
	}
	if c != nil {
		logging.Info(logger, "schedule cache ready", slog.String(logging.FieldBackend, c.Name()))
	}
	return c
}
