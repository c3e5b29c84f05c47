package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// PoolConfig sizes the postgres connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func defaultPool() PoolConfig {
	return PoolConfig{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}
}

// OpenPostgres opens a traced postgres pool and pings it.
func OpenPostgres(ctx context.Context, rawURL string, disablePreparedBinaryResult bool) (*sqlx.DB, error) {
	dsn := NormalizeURL(rawURL, disablePreparedBinaryResult)
	db, err := Open(ctx, "postgres", dsn, "postgresql")
	if err != nil {
		return nil, err
	}

	pool := defaultPool()
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	return db, nil
}

// Open opens any registered driver with otelsql spans and verifies the
// connection.
func Open(ctx context.Context, driverName, dsn, system string) (*sqlx.DB, error) {
	db, err := otelsqlx.Open(driverName, dsn,
		otelsql.WithDBSystem(system),
		otelsql.WithDBName(NameFromURL(dsn)),
		otelsql.WithQueryFormatter(FormatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open %s %s: %w", driverName, Redact(dsn), err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s %s: %w", driverName, Redact(dsn), err)
	}
	return db, nil
}
