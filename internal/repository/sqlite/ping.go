package sqlite

import (
	"context"
	"database/sql"

	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

type pinger struct{ db *sql.DB }

func NewPinger(db *sql.DB) repository.Pinger { return &pinger{db: db} }

func (p *pinger) Ping(ctx context.Context) error {
	if err := ensureDB(p.db); err != nil {
		return err
	}
	return mapError(p.db.PingContext(ctx))
}
