package httpapi

import (
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

type trendReportDTO struct {
	Year        int             `json:"year"`
	Week        int             `json:"week"`
	SeasonType  game.SeasonType `json:"seasonType"`
	Heuristic   trend.Heuristic `json:"heuristic,omitempty"`
	Poll        string          `json:"poll"`
	RankingWeek int             `json:"rankingWeek"`
	Rows        []trend.Row     `json:"rows"`
	Summary     trend.Summary   `json:"summary"`
	FetchedAt   time.Time       `json:"fetchedAt"`
}
