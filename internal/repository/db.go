package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/principality/principality-server-go/internal/config"
	"go.uber.org/zap"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB opens a pool configured from cfg and checks the connection.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return &DB{pool: pool, logger: logger}, nil
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Stats reports pool usage.
func (db *DB) Stats() *pgxpool.Stat {
	return db.pool.Stat()
}

// Close releases every connection.
func (db *DB) Close() {
	db.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	position    INTEGER PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	card_type   TEXT NOT NULL,
	cost        INTEGER NOT NULL,
	coins       INTEGER NOT NULL DEFAULT 0,
	plus_cards  INTEGER NOT NULL DEFAULT 0,
	plus_actions INTEGER NOT NULL DEFAULT 0,
	plus_buys   INTEGER NOT NULL DEFAULT 0,
	vp          INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	kingdom     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS games (
	id          UUID PRIMARY KEY,
	seed        TEXT NOT NULL,
	players     INTEGER NOT NULL,
	kingdom     TEXT[] NOT NULL,
	moves       JSONB NOT NULL,
	scores      INTEGER[] NOT NULL,
	winner      INTEGER NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	turns       INTEGER NOT NULL,
	checksum    TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS games_finished_at_idx ON games (finished_at DESC);
`

// Migrate creates the archive tables.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	db.logger.Debug("schema migrated")
	return nil
}
