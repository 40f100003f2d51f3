package schema

import (
	"fmt"
	"strings"
)

// Dialect holds the SQL fragments a storage backend uses for the logical types.
type Dialect struct {
	ID    string // full primary key definition
	Ref   string // integer type used by foreign keys
	Date  string
	Quote func(ident string) string
}

func (d Dialect) columnType(c Column) string {
	switch c.Type {
	case TypeID:
		return d.ID
	case TypeRef:
		return d.Ref
	case TypeDate:
		return d.Date
	case TypeCounter:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// ColumnDef renders the definition of c as used in CREATE TABLE.
func (d Dialect) ColumnDef(c Column) string {
	var b strings.Builder
	b.WriteString(d.Quote(c.Name))
	b.WriteByte(' ')
	b.WriteString(d.columnType(c))
	if c.Type == TypeCounter {
		b.WriteString(" NOT NULL DEFAULT 0")
	} else if c.Required && c.Type != TypeID {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Type == TypeRef && c.References != "" {
		fmt.Fprintf(&b, " REFERENCES %s(%s)", d.Quote(c.References), d.Quote("id"))
	}
	return b.String()
}

// CreateTable renders an idempotent CREATE TABLE statement for t.
func (d Dialect) CreateTable(t Table) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, d.ColumnDef(c))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.Quote(t.Name), strings.Join(defs, ", "))
}

// AddColumn renders ALTER TABLE ... ADD COLUMN for c. Columns without a default
// are added nullable so existing rows stay valid.
func (d Dialect) AddColumn(table string, c Column, ifNotExists bool) (string, error) {
	if err := c.Addable(); err != nil {
		return "", err
	}
	if c.Type != TypeCounter {
		c.Required = false
	}
	clause := "ADD COLUMN"
	if ifNotExists {
		clause += " IF NOT EXISTS"
	}
	return fmt.Sprintf("ALTER TABLE %s %s %s", d.Quote(table), clause, d.ColumnDef(c)), nil
}
