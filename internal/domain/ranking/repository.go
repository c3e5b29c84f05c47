package ranking

import (
	"context"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
)

// Repository exposes poll reads. Week 0 in the query returns every week.
type Repository interface {
	ListRankings(ctx context.Context, query game.Query) ([]Entry, error)
}
