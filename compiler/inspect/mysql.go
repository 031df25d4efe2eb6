package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/syssam/garden/dialect"
	"github.com/syssam/garden/schema"
)

type mysqlInspector struct {
	db     *sql.DB
	schema string
}

const (
	mysqlTablesQuery = "SELECT TABLE_NAME, TABLE_COMMENT FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"

	// COLUMN_TYPE carries the full declaration, including enum values,
	// display widths, and the unsigned modifier.
	mysqlColumnsQuery = "SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, EXTRA, COLUMN_COMMENT FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION"

	mysqlPrimaryKeyQuery = "SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY ORDINAL_POSITION"

	mysqlForeignKeysQuery = "SELECT CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND REFERENCED_TABLE_NAME IS NOT NULL ORDER BY CONSTRAINT_NAME, ORDINAL_POSITION"

	mysqlIndexesQuery = "SELECT INDEX_NAME, NON_UNIQUE, COLUMN_NAME FROM INFORMATION_SCHEMA.STATISTICS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND INDEX_NAME <> 'PRIMARY' ORDER BY INDEX_NAME, SEQ_IN_INDEX"
)

// schemaName resolves the schema to inspect, defaulting to the database the
// connection is attached to.
func (m *mysqlInspector) schemaName(ctx context.Context) (string, error) {
	if m.schema != "" {
		return m.schema, nil
	}
	var name sql.NullString
	if err := m.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&name); err != nil {
		return "", fmt.Errorf("inspect mysql: current database: %w", err)
	}
	if !name.Valid || name.String == "" {
		return "", fmt.Errorf("inspect mysql: connection has no default database; set one in the DSN or via WithSchema")
	}
	return name.String, nil
}

func (m *mysqlInspector) Tables(ctx context.Context) ([]*schema.Table, error) {
	schemaName, err := m.schemaName(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx, mysqlTablesQuery, schemaName)
	if err != nil {
		return nil, fmt.Errorf("inspect mysql: list tables: %w", err)
	}
	type tableInfo struct{ name, comment string }
	var infos []tableInfo
	for rows.Next() {
		var ti tableInfo
		if err := rows.Scan(&ti.name, &ti.comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("inspect mysql: scan table: %w", err)
		}
		infos = append(infos, ti)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	tables := make([]*schema.Table, 0, len(infos))
	for _, ti := range infos {
		t := schema.NewTable(ti.name)
		t.Schema = schemaName
		t.Comment = ti.comment
		if err := m.columns(ctx, t); err != nil {
			return nil, err
		}
		if err := m.primaryKey(ctx, t); err != nil {
			return nil, err
		}
		if err := m.foreignKeys(ctx, t); err != nil {
			return nil, err
		}
		if err := m.indexes(ctx, t); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (m *mysqlInspector) columns(ctx context.Context, t *schema.Table) error {
	rows, err := m.db.QueryContext(ctx, mysqlColumnsQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect mysql: columns of %s: %w", t.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name, columnType, nullable string
			defaultExpr                sql.NullString
			key, extra, comment        string
		)
		if err := rows.Scan(&name, &columnType, &nullable, &defaultExpr, &key, &extra, &comment); err != nil {
			return fmt.Errorf("inspect mysql: scan column of %s: %w", t.Name, err)
		}
		ct, err := schema.ParseColumnType(dialect.MySQL, columnType)
		if err != nil {
			return fmt.Errorf("inspect mysql: column %s.%s: %w", t.Name, name, err)
		}
		c := &schema.Column{
			Name:          name,
			Type:          ct,
			Nullable:      nullable == "YES",
			Comment:       comment,
			Unique:        key == "UNI",
			AutoIncrement: strings.Contains(extra, "auto_increment"),
		}
		if defaultExpr.Valid {
			d := defaultExpr.String
			c.Default = &d
		}
		t.AddColumn(c)
	}
	return rows.Err()
}

func (m *mysqlInspector) primaryKey(ctx context.Context, t *schema.Table) error {
	rows, err := m.db.QueryContext(ctx, mysqlPrimaryKeyQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect mysql: primary key of %s: %w", t.Name, err)
	}
	columns, err := scanStrings(rows)
	if err != nil {
		return fmt.Errorf("inspect mysql: primary key of %s: %w", t.Name, err)
	}
	for _, name := range columns {
		if c, ok := t.Column(name); ok {
			c.PrimaryKey = true
		}
	}
	t.PrimaryKey = columns
	return nil
}

// indexes reads the secondary indexes; the primary key is filtered out by
// name. Unique membership per column already comes from COLUMN_KEY.
func (m *mysqlInspector) indexes(ctx context.Context, t *schema.Table) error {
	rows, err := m.db.QueryContext(ctx, mysqlIndexesQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect mysql: indexes of %s: %w", t.Name, err)
	}
	defer rows.Close()
	byName := make(map[string]*schema.Index)
	for rows.Next() {
		var (
			name, column string
			nonUnique    int
		)
		if err := rows.Scan(&name, &nonUnique, &column); err != nil {
			return fmt.Errorf("inspect mysql: scan index of %s: %w", t.Name, err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = &schema.Index{Name: name, Unique: nonUnique == 0}
			byName[name] = idx
			t.Indexes = append(t.Indexes, idx)
		}
		idx.Columns = append(idx.Columns, column)
	}
	return rows.Err()
}

func (m *mysqlInspector) foreignKeys(ctx context.Context, t *schema.Table) error {
	rows, err := m.db.QueryContext(ctx, mysqlForeignKeysQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect mysql: foreign keys of %s: %w", t.Name, err)
	}
	defer rows.Close()
	byName := make(map[string]*schema.ForeignKey)
	for rows.Next() {
		var symbol, column, refTable, refColumn string
		if err := rows.Scan(&symbol, &column, &refTable, &refColumn); err != nil {
			return fmt.Errorf("inspect mysql: scan foreign key of %s: %w", t.Name, err)
		}
		fk, ok := byName[symbol]
		if !ok {
			fk = &schema.ForeignKey{Symbol: symbol, RefTable: refTable}
			byName[symbol] = fk
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
		fk.Columns = append(fk.Columns, column)
		fk.RefColumns = append(fk.RefColumns, refColumn)
	}
	return rows.Err()
}
