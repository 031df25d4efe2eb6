package gen

import (
	"fmt"
	"path"

	"github.com/syssam/garden/schema"
)

// Graph is the generation model built from an introspected database: one
// node per base table, carrying the naming already resolved by convention.
type Graph struct {
	*Config
	// Database is the introspected schema the graph was built from.
	Database *schema.Database
	// Nodes holds one type per generated table, in table-name order.
	Nodes []*Type
	// Warnings collects non-fatal convention problems found while building.
	Warnings []string
}

// Type represents one generated model type and the table behind it.
type Type struct {
	*Config
	// Table is the introspected table this type was derived from.
	Table *schema.Table
	// Name is the model type name (singular PascalCase table name).
	Name string
	// Fields holds one field per column, in declaration order.
	Fields []*Field
}

// Field is one struct field derived from a column.
type Field struct {
	typ *Type
	// Column is the introspected column behind the field.
	Column *schema.Column
	// Name is the exported Go field name.
	Name string
}

// NewGraph builds the generation graph from a database model. Excluded
// tables are dropped here; name collisions after singularization get a
// numeric suffix and a warning.
func NewGraph(c *Config, db *schema.Database) (*Graph, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, NewSchemaError("", "", "nil database", nil)
	}
	g := &Graph{Config: c, Database: db}
	seen := make(map[string]string) // type name -> table that claimed it
	for _, table := range db.Tables {
		excluded, err := c.excluded(table.Name)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}
		t, err := NewType(c, table)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[t.Name]; ok {
			base := t.Name
			for n := 2; ; n++ {
				t.Name = fmt.Sprintf("%s%d", base, n)
				if _, taken := seen[t.Name]; !taken {
					break
				}
			}
			g.Warnings = append(g.Warnings, fmt.Sprintf(
				"tables %s and %s both map to type %s; renamed the latter to %s",
				prev, table.Name, base, t.Name,
			))
		}
		seen[t.Name] = table.Name
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// excluded reports whether the table name matches an exclusion glob.
func (c *Config) excluded(table string) (bool, error) {
	for _, pattern := range c.Exclude {
		ok, err := path.Match(pattern, table)
		if err != nil {
			return false, NewConfigError("Exclude", pattern, "invalid glob pattern")
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// NewType derives a model type from a table.
func NewType(c *Config, table *schema.Table) (*Type, error) {
	if len(table.Columns) == 0 {
		return nil, NewSchemaError(table.Name, "", "table has no columns", nil)
	}
	t := &Type{
		Config: c,
		Table:  table,
		Name:   typeName(table.Name),
	}
	used := map[string]bool{t.Name: true}
	for _, col := range table.Columns {
		if col.Name == "" {
			return nil, NewValidationError(table.Name, col, "column with empty name")
		}
		name := pascal(col.Name)
		// A field cannot shadow its own struct type, and two columns must
		// not collapse to the same Go name.
		for used[name] {
			name += "_"
		}
		used[name] = true
		t.Fields = append(t.Fields, &Field{typ: t, Column: col, Name: name})
	}
	return t, nil
}

// JoinTable reports whether the node is a pure many-to-many join table.
// Join tables get a model but no form.
func (t *Type) JoinTable() bool {
	return t.Table.IsJoinTable()
}

// FileName is the model file name, derived from the type name.
func (t *Type) FileName() string {
	return snake(t.Name) + ".go"
}

// FormFileName is the form file name, a sibling of the model by convention.
func (t *Type) FormFileName() string {
	return snake(t.Name) + "_form.go"
}

// FormName is the generated form variable name.
func (t *Type) FormName() string {
	return t.Name + "Form"
}

// Action is the conventional submit path of the generated form.
func (t *Type) Action() string {
	return "/" + plural(t.Name)
}

// PrimaryField returns the field backing the single-column primary key,
// or nil for composite or missing keys.
func (t *Type) PrimaryField() *Field {
	if len(t.Table.PrimaryKey) != 1 {
		return nil
	}
	for _, f := range t.Fields {
		if f.Column.Name == t.Table.PrimaryKey[0] {
			return f
		}
	}
	return nil
}

// Node returns the graph node generated for the given table name.
func (g *Graph) Node(table string) (*Type, bool) {
	for _, n := range g.Nodes {
		if n.Table.Name == table {
			return n, true
		}
	}
	return nil, false
}
