package teaminfo

import "context"

// Repository exposes FBS team metadata reads.
type Repository interface {
	ListTeams(ctx context.Context, year int) ([]Team, error)
}
