package games

import (
	"context"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/providers"
)

// Service serves daily schedules from a ScheduleProvider.
type Service struct {
	provider providers.ScheduleProvider
}

// NewService constructs a Service with the provided provider.
func NewService(provider providers.ScheduleProvider) *Service {
	return &Service{provider: provider}
}

// Schedule returns the games for date.
func (s *Service) Schedule(ctx context.Context, date string) (domaingames.ScheduleResponse, error) {
	if s == nil || s.provider == nil {
		return domaingames.ScheduleResponse{}, providers.ErrProviderUnavailable
	}
	games, err := s.provider.FetchGames(ctx, date)
	if err != nil {
		return domaingames.ScheduleResponse{}, err
	}
	return domaingames.NewScheduleResponse(date, games), nil
}

// GameByID returns a single game on date if present.
func (s *Service) GameByID(ctx context.Context, date, id string) (domaingames.Game, bool, error) {
	resp, err := s.Schedule(ctx, date)
	if err != nil {
		return domaingames.Game{}, false, err
	}
	for _, g := range resp.Games {
		if g.ID == id {
			return g, true, nil
		}
	}
	return domaingames.Game{}, false, nil
}
