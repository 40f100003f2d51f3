package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
)

var dialect = schema.Dialect{
	ID:    "INTEGER PRIMARY KEY AUTOINCREMENT",
	Ref:   "INTEGER",
	Date:  "TEXT",
	Quote: quoteIdent,
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

type migrator struct {
	db *sql.DB
	tx txManager
}

func NewMigrator(db *sql.DB) schema.Migrator { return &migrator{db: db, tx: txManager{db: db}} }

// EnsureSchema runs in one BEGIN IMMEDIATE transaction, which takes the write
// lock up front and so serializes processes sharing the file.
func (m *migrator) EnsureSchema(ctx context.Context, tables []schema.Table) error {
	return m.tx.WithinTx(ctx, func(ctx context.Context) error {
		exec := getQ(ctx, m.db)
		for _, t := range tables {
			if _, err := exec.ExecContext(ctx, dialect.CreateTable(t)); err != nil {
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
	return m.tx.WithinTx(ctx, func(ctx context.Context) error {
		exec := getQ(ctx, m.db)
		present, err := columnsOf(ctx, exec, table)
		if err != nil {
			return err
		}
		for _, c := range schema.Missing(present, columns) {
			// SQLite has no ADD COLUMN IF NOT EXISTS; the introspection above stands in for it
			stmt, err := dialect.AddColumn(table, c, false)
			if err != nil {
				return err
			}
			if _, err := exec.ExecContext(ctx, stmt); err != nil {
				if strings.Contains(err.Error(), "duplicate column name") {
					continue
				}
				return fmt.Errorf("add column %s.%s: %w", table, c.Name, mapError(err))
			}
		}
		return nil
	})
}

func (m *migrator) Columns(ctx context.Context, table string) ([]string, error) {
	if err := ensureDB(m.db); err != nil {
		return nil, err
	}
	return columnsOf(ctx, getQ(ctx, m.db), table)
}

func columnsOf(ctx context.Context, exec q, table string) ([]string, error) {
	rows, err := exec.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return names, nil
}

var _ schema.Migrator = (*migrator)(nil)
