package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/syssam/garden/dialect"
	"github.com/syssam/garden/schema"
)

type postgresInspector struct {
	db     *sql.DB
	schema string
}

const (
	pgTablesQuery = `SELECT table_name, COALESCE(obj_description(format('%I.%I', table_schema, table_name)::regclass, 'pg_class'), '') FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name`

	pgColumnsQuery = `SELECT column_name, data_type, udt_name, is_nullable, column_default, character_maximum_length, numeric_precision, numeric_scale, COALESCE(col_description(format('%I.%I', table_schema, table_name)::regclass, ordinal_position), '') FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`

	pgKeysQuery = `SELECT tc.constraint_type, kcu.column_name FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE') ORDER BY tc.constraint_name, kcu.ordinal_position`

	pgForeignKeysQuery = `SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema JOIN information_schema.constraint_column_usage ccu ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'FOREIGN KEY' ORDER BY tc.constraint_name, kcu.ordinal_position`

	pgIndexesQuery = `SELECT i.relname, ix.indisunique, a.attname FROM pg_catalog.pg_index ix JOIN pg_catalog.pg_class i ON i.oid = ix.indexrelid JOIN pg_catalog.pg_class c ON c.oid = ix.indrelid JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid AND a.attnum = k.attnum WHERE n.nspname = $1 AND c.relname = $2 AND NOT ix.indisprimary ORDER BY i.relname, k.ord`
)

func (p *postgresInspector) schemaName() string {
	if p.schema != "" {
		return p.schema
	}
	return "public"
}

func (p *postgresInspector) Tables(ctx context.Context) ([]*schema.Table, error) {
	rows, err := p.db.QueryContext(ctx, pgTablesQuery, p.schemaName())
	if err != nil {
		return nil, fmt.Errorf("inspect postgres: list tables: %w", err)
	}
	type tableInfo struct{ name, comment string }
	var infos []tableInfo
	for rows.Next() {
		var ti tableInfo
		if err := rows.Scan(&ti.name, &ti.comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("inspect postgres: scan table: %w", err)
		}
		infos = append(infos, ti)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	tables := make([]*schema.Table, 0, len(infos))
	for _, ti := range infos {
		t, err := p.table(ctx, ti.name)
		if err != nil {
			return nil, err
		}
		t.Comment = ti.comment
		tables = append(tables, t)
	}
	return tables, nil
}

func (p *postgresInspector) table(ctx context.Context, name string) (*schema.Table, error) {
	t := schema.NewTable(name)
	t.Schema = p.schemaName()
	if err := p.columns(ctx, t); err != nil {
		return nil, err
	}
	if err := p.keys(ctx, t); err != nil {
		return nil, err
	}
	if err := p.foreignKeys(ctx, t); err != nil {
		return nil, err
	}
	if err := p.indexes(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *postgresInspector) columns(ctx context.Context, t *schema.Table) error {
	rows, err := p.db.QueryContext(ctx, pgColumnsQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect postgres: columns of %s: %w", t.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			name, dataType, udt, nullable string
			defaultExpr                   sql.NullString
			charLen, precision, scale     sql.NullInt64
			comment                       string
		)
		if err := rows.Scan(&name, &dataType, &udt, &nullable, &defaultExpr, &charLen, &precision, &scale, &comment); err != nil {
			return fmt.Errorf("inspect postgres: scan column of %s: %w", t.Name, err)
		}
		raw := dataType
		// Enums and domain types report as USER-DEFINED; the udt name is
		// the real type. Arrays report as ARRAY with a _-prefixed udt.
		if dataType == "USER-DEFINED" || dataType == "ARRAY" {
			raw = strings.TrimPrefix(udt, "_")
		}
		switch {
		case charLen.Valid:
			raw = fmt.Sprintf("%s(%d)", raw, charLen.Int64)
		case (raw == "numeric" || raw == "decimal") && precision.Valid:
			raw = fmt.Sprintf("%s(%d,%d)", raw, precision.Int64, scale.Int64)
		}
		ct, err := schema.ParseColumnType(dialect.Postgres, raw)
		if err != nil {
			return fmt.Errorf("inspect postgres: column %s.%s: %w", t.Name, name, err)
		}
		c := &schema.Column{
			Name:     name,
			Type:     ct,
			Nullable: nullable == "YES",
			Comment:  comment,
		}
		if defaultExpr.Valid {
			d := defaultExpr.String
			c.Default = &d
			// Serial columns surface as integers with a nextval default.
			if strings.HasPrefix(d, "nextval(") {
				c.AutoIncrement = true
			}
		}
		t.AddColumn(c)
	}
	return rows.Err()
}

// keys reads primary-key and unique-constraint membership in one pass.
func (p *postgresInspector) keys(ctx context.Context, t *schema.Table) error {
	rows, err := p.db.QueryContext(ctx, pgKeysQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect postgres: keys of %s: %w", t.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var ctype, column string
		if err := rows.Scan(&ctype, &column); err != nil {
			return fmt.Errorf("inspect postgres: scan key of %s: %w", t.Name, err)
		}
		c, ok := t.Column(column)
		if !ok {
			continue
		}
		switch ctype {
		case "PRIMARY KEY":
			c.PrimaryKey = true
			t.PrimaryKey = append(t.PrimaryKey, column)
		case "UNIQUE":
			c.Unique = true
		}
	}
	return rows.Err()
}

func (p *postgresInspector) foreignKeys(ctx context.Context, t *schema.Table) error {
	rows, err := p.db.QueryContext(ctx, pgForeignKeysQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect postgres: foreign keys of %s: %w", t.Name, err)
	}
	defer rows.Close()
	byName := make(map[string]*schema.ForeignKey)
	for rows.Next() {
		var symbol, column, refTable, refColumn string
		if err := rows.Scan(&symbol, &column, &refTable, &refColumn); err != nil {
			return fmt.Errorf("inspect postgres: scan foreign key of %s: %w", t.Name, err)
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

// indexes reads the secondary indexes, primary key excluded. Single-column
// unique indexes also mark their column unique, matching what constraint
// membership already does for declared UNIQUE constraints.
func (p *postgresInspector) indexes(ctx context.Context, t *schema.Table) error {
	rows, err := p.db.QueryContext(ctx, pgIndexesQuery, t.Schema, t.Name)
	if err != nil {
		return fmt.Errorf("inspect postgres: indexes of %s: %w", t.Name, err)
	}
	defer rows.Close()
	byName := make(map[string]*schema.Index)
	for rows.Next() {
		var (
			name, column string
			unique       bool
		)
		if err := rows.Scan(&name, &unique, &column); err != nil {
			return fmt.Errorf("inspect postgres: scan index of %s: %w", t.Name, err)
		}
		idx, ok := byName[name]
		if !ok {
			idx = &schema.Index{Name: name, Unique: unique}
			byName[name] = idx
			t.Indexes = append(t.Indexes, idx)
		}
		idx.Columns = append(idx.Columns, column)
	}
	for _, idx := range t.Indexes {
		if idx.Unique && len(idx.Columns) == 1 {
			if c, ok := t.Column(idx.Columns[0]); ok {
				c.Unique = true
			}
		}
	}
	return rows.Err()
}

// scanStrings drains a single-column string result set.
func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
