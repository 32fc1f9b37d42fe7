package providers

import (
	"context"

	domaingames "nhl-travel-service/internal/domain/games"
)

// ScheduleProvider fetches the games scheduled on one calendar date.
// The date parameter is a YYYY-MM-DD string; implementations must not
// substitute another day for an invalid date.
type ScheduleProvider interface {
	FetchGames(ctx context.Context, date string) ([]domaingames.Game, error)
}

// ProviderFunc adapts a function to ScheduleProvider.
type ProviderFunc func(ctx context.Context, date string) ([]domaingames.Game, error)

// FetchGames calls f.
func (f ProviderFunc) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	return f(ctx, date)
}
