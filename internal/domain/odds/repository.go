package odds

import "context"

// Repository exposes college football odds reads.
type Repository interface {
	ListOdds(ctx context.Context, query Query) ([]Quote, error)
}
