package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
	qb "github.com/riskibarqy/cfb-edge/internal/platform/querybuilder"
)

// insertBatchSize keeps one statement under the postgres bind limit.
const insertBatchSize = 500

// TrendRepository stores weekly trend snapshots. The SQL is portable, so the
// sqlite archive reuses it with question-mark placeholders.
type TrendRepository struct {
	db     *sqlx.DB
	format qb.Placeholder
}

func NewTrendRepository(db *sqlx.DB) *TrendRepository {
	return &TrendRepository{db: db, format: qb.Dollar}
}

func NewTrendRepositoryWithPlaceholder(db *sqlx.DB, format qb.Placeholder) *TrendRepository {
	return &TrendRepository{db: db, format: format}
}

// SaveWeek replaces every stored row of the snapshot's week in one transaction.
func (r *TrendRepository) SaveWeek(ctx context.Context, snapshot trend.WeekSnapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save trend week: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom(trendSnapshotTable).
		PlaceholderFormat(r.format).
		Where(
			qb.Eq("season", snapshot.Season),
			qb.Eq("season_type", snapshot.SeasonType),
			qb.Eq("week", snapshot.Week),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear trend week query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear trend week season=%d week=%d: %w", snapshot.Season, snapshot.Week, err)
	}

	models := make([]trendSnapshotTableModel, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		models = append(models, newTrendSnapshotModel(snapshot, row))
	}
	for start := 0; start < len(models); start += insertBatchSize {
		end := min(start+insertBatchSize, len(models))
		query, args, err := qb.InsertModels(r.format, trendSnapshotTable, models[start:end], "")
		if err != nil {
			return fmt.Errorf("build insert trend rows query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert trend rows season=%d week=%d: %w", snapshot.Season, snapshot.Week, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save trend week tx: %w", err)
	}
	return nil
}

func (r *TrendRepository) ListSeason(ctx context.Context, season int) ([]trend.Row, error) {
	query, args, err := qb.Select(qb.Columns(trendSnapshotTableModel{})...).
		PlaceholderFormat(r.format).
		From(trendSnapshotTable).
		Where(qb.Eq("season", season)).
		OrderBy("week", "start_date", "home_team").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select trend season query: %w", err)
	}

	var rows []trendSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isBindParameterMismatch(err) {
			return nil, fmt.Errorf("select trend season=%d (check DB_DISABLE_PREPARED_BINARY_RESULT): %w", season, err)
		}
		return nil, fmt.Errorf("select trend season=%d: %w", season, err)
	}

	out := make([]trend.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *TrendRepository) ListWeeks(ctx context.Context, season int) ([]trend.WeekRef, error) {
	query, args, err := qb.Select(
		"run_id",
		"season",
		"season_type",
		"week",
		"recorded_at",
		"COUNT(*) AS row_count",
	).
		PlaceholderFormat(r.format).
		From(trendSnapshotTable).
		Where(qb.Eq("season", season)).
		// A week is always replaced whole, so it carries one run.
		GroupBy("season", "season_type", "week", "run_id", "recorded_at").
		OrderBy("season_type", "week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select trend weeks query: %w", err)
	}

	var rows []trendWeekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select trend weeks season=%d: %w", season, err)
	}

	out := make([]trend.WeekRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, trend.WeekRef{
			RunID:      row.RunID,
			Season:     row.Season,
			SeasonType: row.SeasonType,
			Week:       row.Week,
			RecordedAt: row.RecordedAt.UTC(),
			Rows:       row.Rows,
		})
	}
	return out, nil
}
