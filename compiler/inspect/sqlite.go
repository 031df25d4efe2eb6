package inspect

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/garden/dialect"
	"github.com/syssam/garden/schema"
)

type sqliteInspector struct {
	db *sql.DB
}

const sqliteTablesQuery = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

func (s *sqliteInspector) Tables(ctx context.Context) ([]*schema.Table, error) {
	rows, err := s.db.QueryContext(ctx, sqliteTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("inspect sqlite: list tables: %w", err)
	}
	names, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("inspect sqlite: list tables: %w", err)
	}
	tables := make([]*schema.Table, 0, len(names))
	for _, name := range names {
		t, err := s.table(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (s *sqliteInspector) table(ctx context.Context, name string) (*schema.Table, error) {
	t := schema.NewTable(name)
	if err := s.columns(ctx, t); err != nil {
		return nil, err
	}
	if err := s.foreignKeys(ctx, t); err != nil {
		return nil, err
	}
	if err := s.uniques(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *sqliteInspector) columns(ctx context.Context, t *schema.Table) error {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", t.Name))
	if err != nil {
		return fmt.Errorf("inspect sqlite: columns of %s: %w", t.Name, err)
	}
	defer rows.Close()
	// pk position (1-based) per column, for composite key ordering.
	type pkCol struct {
		name string
		pos  int
	}
	var pks []pkCol
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			defaultExpr      sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultExpr, &pk); err != nil {
			return fmt.Errorf("inspect sqlite: scan column of %s: %w", t.Name, err)
		}
		if typ == "" {
			// Untyped columns are legal in SQLite.
			typ = "text"
		}
		ct, err := schema.ParseColumnType(dialect.SQLite, typ)
		if err != nil {
			return fmt.Errorf("inspect sqlite: column %s.%s: %w", t.Name, name, err)
		}
		c := &schema.Column{
			Name:       name,
			Type:       ct,
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
		}
		if defaultExpr.Valid {
			d := defaultExpr.String
			c.Default = &d
		}
		t.AddColumn(c)
		if pk > 0 {
			pks = append(pks, pkCol{name: name, pos: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	sort.Slice(pks, func(i, j int) bool { return pks[i].pos < pks[j].pos })
	for _, pk := range pks {
		t.PrimaryKey = append(t.PrimaryKey, pk.name)
	}
	// An INTEGER PRIMARY KEY column aliases the rowid and auto-increments.
	if len(t.PrimaryKey) == 1 {
		if c, ok := t.Column(t.PrimaryKey[0]); ok && strings.EqualFold(c.Type.Raw, "integer") {
			c.AutoIncrement = true
		}
	}
	return nil
}

func (s *sqliteInspector) foreignKeys(ctx context.Context, t *schema.Table) error {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", t.Name))
	if err != nil {
		return fmt.Errorf("inspect sqlite: foreign keys of %s: %w", t.Name, err)
	}
	defer rows.Close()
	byID := make(map[int]*schema.ForeignKey)
	for rows.Next() {
		var (
			id, seq                           int
			refTable, from                    string
			to                                sql.NullString
			onUpdate, onDelete, matchBehavior string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &matchBehavior); err != nil {
			return fmt.Errorf("inspect sqlite: scan foreign key of %s: %w", t.Name, err)
		}
		fk, ok := byID[id]
		if !ok {
			fk = &schema.ForeignKey{
				Symbol:   fmt.Sprintf("%s_fk_%d", t.Name, id),
				RefTable: refTable,
			}
			byID[id] = fk
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
		fk.Columns = append(fk.Columns, from)
		if to.Valid {
			fk.RefColumns = append(fk.RefColumns, to.String)
		}
	}
	return rows.Err()
}

// uniques marks single-column unique indexes on their columns.
func (s *sqliteInspector) uniques(ctx context.Context, t *schema.Table) error {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", t.Name))
	if err != nil {
		return fmt.Errorf("inspect sqlite: indexes of %s: %w", t.Name, err)
	}
	type indexInfo struct {
		name   string
		unique bool
	}
	var indexes []indexInfo
	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return fmt.Errorf("inspect sqlite: scan index of %s: %w", t.Name, err)
		}
		indexes = append(indexes, indexInfo{name: name, unique: unique == 1})
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, idx := range indexes {
		columns, err := s.indexColumns(ctx, idx.name)
		if err != nil {
			return err
		}
		t.Indexes = append(t.Indexes, &schema.Index{Name: idx.name, Unique: idx.unique, Columns: columns})
		if idx.unique && len(columns) == 1 {
			if c, ok := t.Column(columns[0]); ok {
				c.Unique = true
			}
		}
	}
	return nil
}

func (s *sqliteInspector) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", index))
	if err != nil {
		return nil, fmt.Errorf("inspect sqlite: index %s: %w", index, err)
	}
	defer rows.Close()
	var columns []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("inspect sqlite: scan index %s: %w", index, err)
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}
