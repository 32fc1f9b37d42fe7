package testutil

import (
	"context"

	domaingames "nhl-travel-service/internal/domain/games"
	"nhl-travel-service/internal/providers"
)

// GoodProvider returns the provided games with no error.
type GoodProvider struct {
	Games []domaingames.Game
}

func (p GoodProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx
	_ = date
	return p.Games, nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	return nil, p.Err
}

// EmptyProvider returns no games, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	return []domaingames.Game{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	return nil, providers.ErrProviderUnavailable
}

// DateProvider serves games keyed by date; unknown dates are empty.
type DateProvider map[string][]domaingames.Game

func (p DateProvider) FetchGames(ctx context.Context, date string) ([]domaingames.Game, error) {
	_ = ctx
	if games, ok := p[date]; ok {
		return games, nil
	}
	return []domaingames.Game{}, nil
}
