// Package schema declares the durable tables and the additive columns they must carry,
// and applies them idempotently through a storage-specific Migrator.
package schema

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
)

// ColumnType is a logical column type; each dialect renders its own SQL for it.
type ColumnType int

const (
	// TypeID is a generated integer primary key.
	TypeID ColumnType = iota
	// TypeText is a variable-length string.
	TypeText
	// TypeRef is an integer foreign key; see Column.References.
	TypeRef
	// TypeDate is a calendar date.
	TypeDate
	// TypeCounter is a non-negative integer defaulting to zero.
	TypeCounter
)

func (t ColumnType) String() string {
	switch t {
	case TypeID:
		return "id"
	case TypeText:
		return "text"
	case TypeRef:
		return "ref"
	case TypeDate:
		return "date"
	case TypeCounter:
		return "counter"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column describes one column of a table.
type Column struct {
	Name       string
	Type       ColumnType
	Required   bool
	Unique     bool
	References string // referenced table; its "id" column is assumed
}

// Table describes a table and its columns in declaration order.
type Table struct {
	Name    string
	Columns []Column
}

// Table and column names shared with the repositories.
const (
	TeamTable   = "team"
	PlayerTable = "player"
	StatsTable  = "stats"
)

// CounterColumns are the six counting stats of the stats table.
var CounterColumns = []Column{
	{Name: "points", Type: TypeCounter},
	{Name: "rebounds", Type: TypeCounter},
	{Name: "assists", Type: TypeCounter},
	{Name: "steals", Type: TypeCounter},
	{Name: "blocks", Type: TypeCounter},
	{Name: "turnovers", Type: TypeCounter},
}

// Tables lists the durable tables in dependency order.
var Tables = []Table{
	{
		Name: TeamTable,
		Columns: []Column{
			{Name: "id", Type: TypeID},
			{Name: "name", Type: TypeText, Required: true, Unique: true},
		},
	},
	{
		Name: PlayerTable,
		Columns: []Column{
			{Name: "id", Type: TypeID},
			{Name: "name", Type: TypeText, Required: true},
			{Name: "team_id", Type: TypeRef, References: TeamTable},
		},
	},
	{
		Name: StatsTable,
		Columns: append([]Column{
			{Name: "id", Type: TypeID},
			{Name: "player_id", Type: TypeRef, Required: true, References: PlayerTable},
			{Name: "game_date", Type: TypeDate, Required: true},
		}, CounterColumns...),
	},
}

// AdditiveColumns lists, per table, the columns that older schema versions may lack.
// Apply adds whichever of them are missing; new entries must be addable (see Addable).
var AdditiveColumns = map[string][]Column{
	StatsTable: CounterColumns,
}

// Migrator is implemented by each storage dialect.
type Migrator interface {
	// EnsureSchema creates every table that does not exist yet. Safe to call concurrently.
	EnsureSchema(ctx context.Context, tables []Table) error
	// EnsureColumns adds the columns missing from table, keeping existing rows. Idempotent.
	EnsureColumns(ctx context.Context, table string, columns []Column) error
	// Columns returns the column names currently present on table.
	Columns(ctx context.Context, table string) ([]string, error)
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether name is a plain lower-case SQL identifier.
func ValidIdentifier(name string) bool { return identRe.MatchString(name) }

// Addable reports whether c can be added to a populated table without a rewrite.
func (c Column) Addable() error {
	if !ValidIdentifier(c.Name) {
		return fmt.Errorf("invalid column name %q", c.Name)
	}
	if c.Type == TypeID || c.Unique {
		return fmt.Errorf("column %q (%s) cannot be added additively", c.Name, c.Type)
	}
	return nil
}

// Validate checks table and column identifiers and references.
func Validate(tables []Table) error {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if !ValidIdentifier(t.Name) {
			return fmt.Errorf("invalid table name %q", t.Name)
		}
		for _, c := range t.Columns {
			if !ValidIdentifier(c.Name) {
				return fmt.Errorf("table %s: invalid column name %q", t.Name, c.Name)
			}
			if c.Type == TypeRef && c.References != "" && !seen[c.References] {
				return fmt.Errorf("table %s: column %s references %q declared later or not at all", t.Name, c.Name, c.References)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// Missing returns the columns of want whose names are not in present, in declaration order.
func Missing(present []string, want []Column) []Column {
	have := make(map[string]struct{}, len(present))
	for _, p := range present {
		have[p] = struct{}{}
	}
	var out []Column
	for _, c := range want {
		if _, ok := have[c.Name]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Apply brings storage up to the declared schema: tables first, then additive columns.
// Any error means the schema is not usable and the caller must not serve requests.
func Apply(ctx context.Context, m Migrator, logger zerolog.Logger) error {
	log := logger.With().Str("module", "schema").Logger()

	if err := Validate(Tables); err != nil {
		return fmt.Errorf("schema definition: %w", err)
	}
	if err := m.EnsureSchema(ctx, Tables); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// iterate in table order so the log and failure point are deterministic
	for _, t := range Tables {
		cols, ok := AdditiveColumns[t.Name]
		if !ok {
			continue
		}
		present, err := m.Columns(ctx, t.Name)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", t.Name, err)
		}
		missing := Missing(present, cols)
		if len(missing) == 0 {
			continue
		}
		for _, c := range missing {
			log.Info().Str("table", t.Name).Str("column", c.Name).Msg("adding column")
		}
		if err := m.EnsureColumns(ctx, t.Name, missing); err != nil {
			return fmt.Errorf("ensure columns on %s: %w", t.Name, err)
		}
	}
	log.Info().Int("tables", len(Tables)).Msg("schema is up to date")
	return nil
}
