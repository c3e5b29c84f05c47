package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

type weekKey struct {
	season     int
	seasonType string
	week       int
}

// TrendRepository keeps week snapshots for the life of the process.
type TrendRepository struct {
	mu    sync.RWMutex
	weeks map[weekKey]trend.WeekSnapshot
}

func NewTrendRepository() *TrendRepository {
	return &TrendRepository{weeks: make(map[weekKey]trend.WeekSnapshot)}
}

func (r *TrendRepository) SaveWeek(_ context.Context, snapshot trend.WeekSnapshot) error {
	snapshot.Rows = append([]trend.Row(nil), snapshot.Rows...)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.weeks[weekKey{season: snapshot.Season, seasonType: snapshot.SeasonType, week: snapshot.Week}] = snapshot
	return nil
}

func (r *TrendRepository) ListSeason(_ context.Context, season int) ([]trend.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]trend.Row, 0)
	for _, snap := range r.sortedSeason(season) {
		out = append(out, snap.Rows...)
	}
	return out, nil
}

func (r *TrendRepository) ListWeeks(_ context.Context, season int) ([]trend.WeekRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snaps := r.sortedSeason(season)
	out := make([]trend.WeekRef, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, trend.WeekRef{
			RunID:      snap.RunID,
			Season:     snap.Season,
			SeasonType: snap.SeasonType,
			Week:       snap.Week,
			RecordedAt: snap.RecordedAt,
			Rows:       len(snap.Rows),
		})
	}
	return out, nil
}

// sortedSeason must be called with the read lock held.
func (r *TrendRepository) sortedSeason(season int) []trend.WeekSnapshot {
	out := make([]trend.WeekSnapshot, 0)
	for key, snap := range r.weeks {
		if key.season == season {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonType != out[j].SeasonType {
			return out[i].SeasonType < out[j].SeasonType
		}
		return out[i].Week < out[j].Week
	})
	return out
}
