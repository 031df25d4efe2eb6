package schema

import (
	"sort"
)

// Database is the introspected description of one database: the dialect it
// was read through and every base table found. Views are never included.
type Database struct {
	// Name is the database (or schema) name the tables were read from.
	Name string
	// Dialect is the dialect the database was introspected with.
	Dialect string
	// Tables holds the base tables sorted by name.
	Tables []*Table
}

// Table describes one base table.
type Table struct {
	// Name is the table name as declared in the database.
	Name string
	// Schema is the schema/namespace the table belongs to (Postgres only).
	Schema string
	// Comment is the table comment, if the backend exposes one.
	Comment string
	// Columns holds the table columns in declaration order.
	Columns []*Column
	// PrimaryKey holds the column names of the primary key in key order.
	PrimaryKey []string
	// ForeignKeys holds the outgoing foreign keys.
	ForeignKeys []*ForeignKey
	// Indexes holds the secondary indexes.
	Indexes []*Index

	columns map[string]*Column
}

// Column describes one table column.
type Column struct {
	// Name is the column name as declared in the database.
	Name string
	// Type holds the parsed type information.
	Type *ColumnType
	// Nullable indicates the column accepts NULL.
	Nullable bool
	// Default is the raw default expression, if any.
	Default *string
	// Comment is the column comment, if the backend exposes one.
	Comment string
	// PrimaryKey indicates the column is part of the primary key.
	PrimaryKey bool
	// Unique indicates a single-column unique constraint or index.
	Unique bool
	// AutoIncrement indicates a serial/auto-increment column.
	AutoIncrement bool
}

// ForeignKey describes an outgoing reference to another table.
type ForeignKey struct {
	// Symbol is the constraint name.
	Symbol string
	// Columns are the referencing column names.
	Columns []string
	// RefTable is the referenced table name.
	RefTable string
	// RefColumns are the referenced column names.
	RefColumns []string
}

// Index describes a secondary index.
type Index struct {
	Name    string
	Unique  bool
	Columns []string
}

// NewTable creates a table and indexes its columns by name.
func NewTable(name string, columns ...*Column) *Table {
	t := &Table{Name: name}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn appends a column and registers it in the lookup map.
func (t *Table) AddColumn(c *Column) {
	if t.columns == nil {
		t.columns = make(map[string]*Column)
	}
	t.Columns = append(t.Columns, c)
	t.columns[c.Name] = c
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	if t.columns == nil {
		t.columns = make(map[string]*Column, len(t.Columns))
		for _, c := range t.Columns {
			t.columns[c.Name] = c
		}
	}
	c, ok := t.columns[name]
	return c, ok
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// fkColumns returns the set of column names covered by foreign keys.
func (t *Table) fkColumns() map[string]struct{} {
	m := make(map[string]struct{})
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			m[c] = struct{}{}
		}
	}
	return m
}

// IsJoinTable reports whether the table is a pure many-to-many join table:
// exactly two foreign keys whose columns cover the whole primary key, and no
// data columns outside the keys. Join tables get no form definition.
func (t *Table) IsJoinTable() bool {
	if len(t.ForeignKeys) != 2 || len(t.PrimaryKey) < 2 {
		return false
	}
	fks := t.fkColumns()
	for _, pk := range t.PrimaryKey {
		if _, ok := fks[pk]; !ok {
			return false
		}
	}
	for _, c := range t.Columns {
		if _, ok := fks[c.Name]; ok {
			continue
		}
		if !c.PrimaryKey {
			return false
		}
	}
	return true
}

// Sort orders tables by name and columns stay in declaration order. It is
// called by inspectors before handing the database to the generator so that
// output is deterministic.
func (d *Database) Sort() {
	sort.Slice(d.Tables, func(i, j int) bool {
		return d.Tables[i].Name < d.Tables[j].Name
	})
}

// Table returns the table with the given name.
func (d *Database) Table(name string) (*Table, bool) {
	for _, t := range d.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
