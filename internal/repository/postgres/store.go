package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/basketball-stat-tracker/internal/config"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

// NewStore bundles the Postgres repositories around pool. Close closes the pool.
func NewStore(pool *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Driver:  config.DriverPostgres,
		Teams:   NewTeamRepository(pool),
		Players: NewPlayerRepository(pool),
		Stats:   NewStatsRepository(pool),
		Tx:      NewTxManager(pool),
		Pinger:  NewPinger(pool),
		Schema:  NewMigrator(pool),
		Close:   pool.Close,
	}
}
