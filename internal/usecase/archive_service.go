package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cfb-edge/internal/domain/edge"
	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	"github.com/riskibarqy/cfb-edge/internal/platform/id"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
)

const (
	backfillStatusSuccess = "success"
	backfillStatusFailed  = "failed"

	maxBackfillWeeks = 20
)

type ArchiveRecord struct {
	RunID      string          `json:"runId"`
	Season     int             `json:"season"`
	SeasonType game.SeasonType `json:"seasonType"`
	Week       int             `json:"week"`
	Rows       int             `json:"rows"`
	Flagged    int             `json:"flagged"`
	Graded     int             `json:"graded"`
	Carried    int             `json:"carried"`
	RecordedAt time.Time       `json:"recordedAt"`
}

type BackfillInput struct {
	Year       int
	SeasonType game.SeasonType
	Weeks      []int
}

type BackfillWeekResult struct {
	Week       int    `json:"week"`
	Status     string `json:"status"`
	RunID      string `json:"runId,omitempty"`
	Rows       int    `json:"rows"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

type BackfillResult struct {
	Year         int                  `json:"year"`
	SeasonType   game.SeasonType      `json:"seasonType"`
	Weeks        []BackfillWeekResult `json:"weeks"`
	SuccessCount int                  `json:"successCount"`
	FailedCount  int                  `json:"failedCount"`
}

type trendBuilder interface {
	Build(ctx context.Context, query SlateQuery) (TrendReport, error)
}

// ArchiveService keeps graded weekly snapshots so the edge dashboard can run
// on real history.
type ArchiveService struct {
	trends  trendBuilder
	repo    trend.Repository
	ids     id.Generator
	workers int
	logger  *logging.Logger
	now     func() time.Time
}

func NewArchiveService(trends trendBuilder, repo trend.Repository, ids id.Generator, workers int, logger *logging.Logger) *ArchiveService {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ArchiveService{
		trends:  trends,
		repo:    repo,
		ids:     ids,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Record processes one week and replaces its stored snapshot. Odds already
// archived for a game are kept when the fresh build has none for it.
func (s *ArchiveService) Record(ctx context.Context, query SlateQuery) (ArchiveRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Record", query.spanAttrs()...)
	defer span.End()

	if query.Week <= 0 {
		return ArchiveRecord{}, fmt.Errorf("%w: week is required to record a snapshot", ErrInvalidInput)
	}
	if err := query.validate(); err != nil {
		return ArchiveRecord{}, err
	}

	report, err := s.trends.Build(ctx, query)
	if err != nil {
		return ArchiveRecord{}, fmt.Errorf("build trends year=%d week=%d: %w", query.Year, query.Week, err)
	}

	stored, err := s.repo.ListSeason(ctx, query.Year)
	if err != nil {
		return ArchiveRecord{}, fmt.Errorf("load archived rows year=%d: %w", query.Year, err)
	}
	carried := carryOdds(report.Rows, stored, query)
	if carried > 0 {
		report.Summary = trend.Summarize(report.Rows)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return ArchiveRecord{}, fmt.Errorf("generate run id: %w", err)
	}
	recordedAt := s.now().UTC()
	snapshot := trend.WeekSnapshot{
		RunID:      runID,
		Season:     query.Year,
		SeasonType: string(query.SeasonType),
		Week:       query.Week,
		RecordedAt: recordedAt,
		Rows:       report.Rows,
	}
	if err := s.repo.SaveWeek(ctx, snapshot); err != nil {
		return ArchiveRecord{}, fmt.Errorf("save snapshot year=%d week=%d: %w", query.Year, query.Week, err)
	}

	flagged := 0
	for _, row := range report.Rows {
		if len(row.Flags) > 0 {
			flagged++
		}
	}

	s.logger.InfoContext(ctx, "trend snapshot recorded",
		"run_id", runID,
		"year", query.Year,
		"week", query.Week,
		"rows", len(report.Rows),
		"graded", report.Summary.Graded,
		"carried", carried,
	)
	return ArchiveRecord{
		RunID:      runID,
		Season:     query.Year,
		SeasonType: query.SeasonType,
		Week:       query.Week,
		Rows:       len(report.Rows),
		Flagged:    flagged,
		Graded:     report.Summary.Graded,
		Carried:    carried,
		RecordedAt: recordedAt,
	}, nil
}

// carryOdds fills rows without odds from the archived row of the same match.
// The odds feed stops listing a game once it kicks off, so a re-record after
// the final would otherwise drop the line the grade needs. Flags and grades
// of filled rows are recomputed in place.
func carryOdds(rows, stored []trend.Row, query SlateQuery) int {
	previous := make(map[game.MatchKey]trend.Row, len(stored))
	for _, row := range stored {
		if !row.HasOdds || row.Week != query.Week || (row.SeasonType != "" && row.SeasonType != query.SeasonType) {
			continue
		}
		previous[row.Key()] = row
	}
	if len(previous) == 0 {
		return 0
	}

	carried := 0
	for i := range rows {
		if rows[i].HasOdds {
			continue
		}
		prev, ok := previous[rows[i].Key()]
		if !ok {
			continue
		}
		rows[i].HasOdds = true
		rows[i].Bookmaker = prev.Bookmaker
		rows[i].HomeSpread = prev.HomeSpread
		rows[i].AwaySpread = prev.AwaySpread
		rows[i].Total = prev.Total
		rows[i].HomeMoneyline = prev.HomeMoneyline
		rows[i].AwayMoneyline = prev.AwayMoneyline

		rows[i].Flags = trend.Evaluate(rows[i])
		if rows[i].Flags == nil {
			rows[i].Flags = []trend.Heuristic{}
		}
		rows[i].HomeATS = trend.GradeRow(rows[i])
		carried++
	}
	return carried
}

// Backfill records several weeks on a bounded worker pool. One failing week
// does not stop the others.
func (s *ArchiveService) Backfill(ctx context.Context, input BackfillInput) (BackfillResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.Backfill", seasonAttr(input.Year))
	defer span.End()

	weeks, err := normalizeWeeks(input.Weeks)
	if err != nil {
		return BackfillResult{}, err
	}
	first := SlateQuery{Year: input.Year, Week: weeks[0], SeasonType: input.SeasonType}
	if err := first.validate(); err != nil {
		return BackfillResult{}, err
	}

	result := BackfillResult{
		Year:       input.Year,
		SeasonType: input.SeasonType,
		Weeks:      make([]BackfillWeekResult, 0, len(weeks)),
	}
	results := make(chan BackfillWeekResult, len(weeks))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(min(s.workers, len(weeks)))
	if err != nil {
		return BackfillResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, week := range weeks {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BackfillWeekResult{Week: week}
			record, err := s.Record(ctx, SlateQuery{Year: input.Year, Week: week, SeasonType: input.SeasonType})
			if err != nil {
				row.Status = backfillStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "backfill week failed", "year", input.Year, "week", week, "error", err)
			} else {
				row.Status = backfillStatusSuccess
				row.RunID = record.RunID
				row.Rows = record.Rows
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return BackfillResult{}, fmt.Errorf("submit week to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Weeks = append(result.Weeks, row)
	}
	sort.SliceStable(result.Weeks, func(i, j int) bool { return result.Weeks[i].Week < result.Weeks[j].Week })

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

// GradedSamples returns the season's archived unranked-home-dog bets.
func (s *ArchiveService) GradedSamples(ctx context.Context, season int) ([]edge.Sample, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.GradedSamples", seasonAttr(season))
	defer span.End()

	rows, err := s.repo.ListSeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list archived rows season=%d: %w", season, err)
	}
	return edge.FromTrendRows(rows), nil
}

func (s *ArchiveService) ListWeeks(ctx context.Context, season int) ([]trend.WeekRef, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArchiveService.ListWeeks", seasonAttr(season))
	defer span.End()

	if season < 1869 || season > 2100 {
		return nil, fmt.Errorf("%w: season %d out of range", ErrInvalidInput, season)
	}
	weeks, err := s.repo.ListWeeks(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list archived weeks season=%d: %w", season, err)
	}
	return orEmpty(weeks), nil
}

func normalizeWeeks(weeks []int) ([]int, error) {
	if len(weeks) == 0 {
		return nil, fmt.Errorf("%w: at least one week is required", ErrInvalidInput)
	}
	out := make([]int, 0, len(weeks))
	for _, w := range weeks {
		if w < 1 || w > maxBackfillWeeks {
			return nil, fmt.Errorf("%w: week %d out of range", ErrInvalidInput, w)
		}
		if !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out, nil
}
