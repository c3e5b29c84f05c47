package game

import "context"

// Repository exposes schedule reads from the schedule provider.
type Repository interface {
	ListGames(ctx context.Context, query Query) ([]Game, error)
	// ListWeather returns kickoff weather keyed by game ID.
	ListWeather(ctx context.Context, query Query) (map[int64]Weather, error)
}
