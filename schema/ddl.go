package schema

import (
	"strings"

	"github.com/lib/pq"
)

// CreateSQL renders one CREATE statement per table plus its indexes, in
// declaration order. Everything is IF NOT EXISTS so the result is
// idempotent and safe to apply on every startup.
func (m *Metadata) CreateSQL() []string {
	var stmts []string
	for _, t := range m.Tables {
		stmts = append(stmts, t.createSQL())
		for _, ix := range t.Indexes {
			stmts = append(stmts, ix.createSQL(t.Name))
		}
	}
	return stmts
}

// DropSQL renders DROP TABLE IF EXISTS statements in reverse declaration
// order so dependent tables drop before their targets. CASCADE covers
// foreign keys that cross the declaration order.
func (m *Metadata) DropSQL() []string {
	stmts := make([]string, 0, len(m.Tables))
	for i := len(m.Tables) - 1; i >= 0; i-- {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(m.Tables[i].Name)+" CASCADE")
	}
	return stmts
}

func (t Table) createSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(pq.QuoteIdentifier(t.Name))
	b.WriteString(" (\n")
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("    ")
		b.WriteString(c.definitionSQL())
	}
	b.WriteString("\n)")
	return b.String()
}

func (c Column) definitionSQL() string {
	parts := []string{pq.QuoteIdentifier(c.Name), c.Type}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.NotNull && !c.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	if c.Unique && !c.PrimaryKey {
		parts = append(parts, "UNIQUE")
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	if c.References != "" {
		parts = append(parts, "REFERENCES "+c.References)
	}
	return strings.Join(parts, " ")
}

func (ix Index) createSQL(table string) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if ix.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX IF NOT EXISTS ")
	b.WriteString(pq.QuoteIdentifier(ix.Name))
	b.WriteString(" ON ")
	b.WriteString(pq.QuoteIdentifier(table))
	cols := make([]string, len(ix.Columns))
	for i, c := range ix.Columns {
		cols[i] = pq.QuoteIdentifier(c)
	}
	b.WriteString(" (" + strings.Join(cols, ", ") + ")")
	return b.String()
}
