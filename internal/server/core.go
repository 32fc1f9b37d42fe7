package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nhl-travel-service/internal/app/games"
	"nhl-travel-service/internal/app/picks"
	"nhl-travel-service/internal/app/teams"
	"nhl-travel-service/internal/config"
	"nhl-travel-service/internal/matchups"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/travel"
	"nhl-travel-service/internal/venues"
)

// Core is the provider stack and app services without any network surface.
// The CLI subcommands use it directly; the server mounts HTTP and MCP on top.
type Core struct {
	Games    *games.Service
	Picks    *picks.Service
	Teams    *teams.Service
	Provider *providers.CachingProvider
	Location *time.Location

	stack providerStack
}

// NewCore builds the configured provider chain, venue tables, and app services.
func NewCore(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Core, error) {
	return newCoreWithProvider(ctx, cfg, logger, recorder, selectProvider(cfg, logger))
}

func newCoreWithProvider(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, base providers.ScheduleProvider) (*Core, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := cfg.Location()
		if err != nil {
			return nil, fmt.Errorf("schedule timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	tables, err := venues.Load(cfg.Travel.VenuesFile)
	if err != nil {
		return nil, err
	}

	stack := newProviderFactory(logger, recorder).build(cfg, base, buildCache(ctx, cfg, logger), loc)
	agg := travel.NewAggregator(stack.cached, venues.NewResolver(tables), travel.AggregatorConfig{
		Concurrency: cfg.Travel.FetchConcurrency,
		Logger:      logger,
		Recorder:    recorder,
	})
	ranker := matchups.NewRanker(agg, logger)

	picksSvc := picks.NewService(ranker, agg, picks.Config{
		LookbackDays:   max(cfg.Travel.LookbackDays, 0),
		NightStartHour: cfg.Travel.NightStartHour,
		Strict:         matchups.Strict().WithThreshold(cfg.Travel.StrictThresholdKm),
		Relaxed:        matchups.Relaxed().WithThreshold(cfg.Travel.RelaxedThresholdKm),
		Location:       loc,
		Logger:         logger,
	})

	return &Core{
		Games:    games.NewService(stack.cached),
		Picks:    picksSvc,
		Teams:    teams.NewService(tables),
		Provider: stack.cached,
		Location: loc,
		stack:    stack,
	}, nil
}

// Close releases the rate limiter and the cache connection.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	return c.stack.close()
}
