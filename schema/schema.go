// Package schema holds table metadata and renders the DDL that
// materializes or removes it. Metadata is declared in Go or loaded from a
// YAML manifest; the facade references it, it never copies it.
package schema

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Column describes one table column.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
	NotNull    bool   `json:"not_null,omitempty"`
	Unique     bool   `json:"unique,omitempty"`
	Default    string `json:"default,omitempty"`
	// References is a "table(column)" foreign key target.
	References string `json:"references,omitempty"`
}

// Index describes a secondary index over one table.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

// Table describes one table: its columns and any secondary indexes.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Indexes []Index  `json:"indexes,omitempty"`
}

// Metadata is an ordered collection of table definitions. Creation follows
// declaration order; drops run in reverse so dependents go first.
type Metadata struct {
	Tables []Table `json:"tables"`
}

// New returns metadata over the given tables.
func New(tables ...Table) *Metadata {
	return &Metadata{Tables: tables}
}

// Add appends a table definition.
func (m *Metadata) Add(t Table) *Metadata {
	m.Tables = append(m.Tables, t)
	return m
}

// Parse reads a YAML manifest into metadata and validates it.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing schema manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and parses a YAML manifest file.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema manifest: %w", err)
	}
	return Parse(data)
}

// Validate rejects empty and duplicate definitions.
func (m *Metadata) Validate() error {
	if len(m.Tables) == 0 {
		return fmt.Errorf("schema: no tables defined")
	}
	seen := make(map[string]bool, len(m.Tables))
	for _, t := range m.Tables {
		if t.Name == "" {
			return fmt.Errorf("schema: table with empty name")
		}
		if seen[t.Name] {
			return fmt.Errorf("schema: duplicate table %q", t.Name)
		}
		seen[t.Name] = true
		if len(t.Columns) == 0 {
			return fmt.Errorf("schema: table %q has no columns", t.Name)
		}
		cols := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if c.Name == "" || c.Type == "" {
				return fmt.Errorf("schema: table %q has a column without name or type", t.Name)
			}
			if cols[c.Name] {
				return fmt.Errorf("schema: table %q has duplicate column %q", t.Name, c.Name)
			}
			cols[c.Name] = true
		}
		for _, ix := range t.Indexes {
			if ix.Name == "" || len(ix.Columns) == 0 {
				return fmt.Errorf("schema: table %q has an index without name or columns", t.Name)
			}
			for _, c := range ix.Columns {
				if !cols[c] {
					return fmt.Errorf("schema: index %q references unknown column %q", ix.Name, c)
				}
			}
		}
	}
	return nil
}
