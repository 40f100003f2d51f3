package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
)

// schemaLockKey identifies the advisory lock held while the schema changes.
const schemaLockKey int64 = 0x62736b74 // "bskt"

var dialect = schema.Dialect{
	ID:    "BIGSERIAL PRIMARY KEY",
	Ref:   "BIGINT",
	Date:  "DATE",
	Quote: func(ident string) string { return pgx.Identifier{ident}.Sanitize() },
}

type migrator struct{ pool *pgxpool.Pool }

func NewMigrator(pool *pgxpool.Pool) schema.Migrator { return &migrator{pool: pool} }

// locked runs fn in a transaction holding the schema advisory lock, so
// concurrent instances starting together apply changes one at a time.
func (m *migrator) locked(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := ensurePool(m.pool); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
			return fmt.Errorf("acquire schema lock: %w", mapError(err))
		}
		return fn(tx)
	})
}

func (m *migrator) EnsureSchema(ctx context.Context, tables []schema.Table) error {
	return m.locked(ctx, func(tx pgx.Tx) error {
		for _, t := range tables {
			if _, err := tx.Exec(ctx, dialect.CreateTable(t)); err != nil {
				return fmt.Errorf("create table %s: %w", t.Name, mapError(err))
			}
		}
		return nil
	})
}

func (m *migrator) EnsureColumns(ctx context.Context, table string, columns []schema.Column) error {
	if !schema.ValidIdentifier(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return m.locked(ctx, func(tx pgx.Tx) error {
		present, err := columnsOf(ctx, tx, table)
		if err != nil {
			return err
		}
		for _, c := range schema.Missing(present, columns) {
			stmt, err := dialect.AddColumn(table, c, true)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("add column %s.%s: %w", table, c.Name, mapError(err))
			}
		}
		return nil
	})
}

func (m *migrator) Columns(ctx context.Context, table string) ([]string, error) {
	if err := ensurePool(m.pool); err != nil {
		return nil, err
	}
	return columnsOf(ctx, getQ(ctx, m.pool), table)
}

func columnsOf(ctx context.Context, exec q, table string) ([]string, error) {
	rows, err := exec.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1
		 ORDER BY ordinal_position`,
		table,
	)
	if err != nil {
		return nil, mapError(err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err)
	}
	return names, nil
}

var _ schema.Migrator = (*migrator)(nil)
