// Package sqlite is the single-file archive backend. It reuses the postgres
// trend repository SQL with question-mark placeholders.
package sqlite

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cfb-edge/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cfb-edge/internal/platform/database"
	qb "github.com/riskibarqy/cfb-edge/internal/platform/querybuilder"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS trend_snapshots (
    id               INTEGER   PRIMARY KEY AUTOINCREMENT,
    run_id           TEXT      NOT NULL,
    season           INTEGER   NOT NULL,
    season_type      TEXT      NOT NULL,
    week             INTEGER   NOT NULL,
    game_id          INTEGER   NOT NULL DEFAULT 0,
    game_date        TEXT      NOT NULL,
    start_date       TIMESTAMP NOT NULL,
    home_team        TEXT      NOT NULL,
    away_team        TEXT      NOT NULL,
    home_conference  TEXT      NOT NULL DEFAULT '',
    away_conference  TEXT      NOT NULL DEFAULT '',
    conference_game  BOOLEAN   NOT NULL DEFAULT 0,
    neutral_site     BOOLEAN   NOT NULL DEFAULT 0,
    completed        BOOLEAN   NOT NULL DEFAULT 0,
    home_points      INTEGER,
    away_points      INTEGER,
    weather          TEXT      NOT NULL DEFAULT 'Unknown',
    bookmaker        TEXT      NOT NULL DEFAULT '',
    home_spread      REAL,
    away_spread      REAL,
    total            REAL,
    home_moneyline   INTEGER,
    away_moneyline   INTEGER,
    has_odds         BOOLEAN   NOT NULL DEFAULT 0,
    home_rank        INTEGER   NOT NULL DEFAULT 0,
    away_rank        INTEGER   NOT NULL DEFAULT 0,
    home_power5      BOOLEAN   NOT NULL DEFAULT 0,
    away_power5      BOOLEAN   NOT NULL DEFAULT 0,
    flags            TEXT      NOT NULL DEFAULT '',
    home_ats         TEXT      NOT NULL DEFAULT '',
    recorded_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trend_snapshots_season_week ON trend_snapshots (season, week);
`

// Open connects to the database file at path, creating the archive schema if
// needed. ":memory:" keeps everything in process.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := database.Open(ctx, driverName, dsn, "sqlite")
	if err != nil {
		return nil, err
	}
	// One writer keeps SQLITE_BUSY out of concurrent backfills.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}

func NewTrendRepository(db *sqlx.DB) *postgres.TrendRepository {
	return postgres.NewTrendRepositoryWithPlaceholder(db, qb.Question)
}
