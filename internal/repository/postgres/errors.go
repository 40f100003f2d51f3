package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
)

// mapError translates Postgres error codes to domain errors.
// Everything I don't handle explicitly at higher layers is wrapped as a storage failure.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return repository.ErrAlreadyExists
		case pgerrcode.ForeignKeyViolation:
			return repository.ErrConflict
		}
	}
	return repository.Storage(err)
}
