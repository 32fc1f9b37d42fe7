package server

import (
	"log/slog"
	"strings"

	"nhl-travel-service/internal/config"
	"nhl-travel-service/internal/providers"
	"nhl-travel-service/internal/providers/fixture"
	"nhl-travel-service/internal/providers/nhle"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.ScheduleProvider {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "fixture", "":
		return fixture.New()
	case "nhle", "nhl":
		return nhle.NewClient(nhle.Config{
			BaseURL: cfg.Nhle.BaseURL,
			Timeout: cfg.Nhle.Timeout,
			Logger:  logger,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New()
	}
}
