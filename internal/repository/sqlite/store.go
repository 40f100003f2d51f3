// Package sqlite implements the repositories on an embedded SQLite file through
// modernc.org/sqlite, so the service runs without a database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/config"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

// dsnOptions turns on foreign keys, waits on a busy file instead of failing
// and makes every transaction take the write lock when it begins.
const dsnOptions = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// OpenDB opens the database file at path with a single shared connection.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return db, nil
}

// Open opens path and bundles the SQLite repositories around it.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*repository.Store, error) {
	db, err := OpenDB(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", path).Msg("opened sqlite database")
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Driver:  config.DriverSQLite,
		Teams:   NewTeamRepository(db),
		Players: NewPlayerRepository(db),
		Stats:   NewStatsRepository(db),
		Tx:      NewTxManager(db),
		Pinger:  NewPinger(db),
		Schema:  NewMigrator(db),
		Close:   func() { _ = db.Close() },
	}
}
