package trend

import (
	"context"
	"time"
)

// WeekSnapshot is the processed trend table of one week at record time.
type WeekSnapshot struct {
	RunID      string
	Season     int
	SeasonType string
	Week       int
	RecordedAt time.Time
	Rows       []Row
}

// WeekRef describes a stored snapshot without its rows.
type WeekRef struct {
	RunID      string    `json:"runId"`
	Season     int       `json:"season"`
	SeasonType string    `json:"seasonType"`
	Week       int       `json:"week"`
	RecordedAt time.Time `json:"recordedAt"`
	Rows       int       `json:"rows"`
}

// Repository stores week snapshots. Saving a week replaces any earlier
// snapshot of the same season, season type and week. Rows inside a week are
// kept as given, repeated matchups included.
type Repository interface {
	SaveWeek(ctx context.Context, snapshot WeekSnapshot) error
	ListSeason(ctx context.Context, season int) ([]Row, error)
	ListWeeks(ctx context.Context, season int) ([]WeekRef, error)
}
