// Package inspect reads table and column metadata from a live database
// connection and maps it to the schema model consumed by the generator.
package inspect

import (
	"context"
	"database/sql"
	"fmt"

	// Drivers registered for the supported dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/garden/dialect"
	"github.com/syssam/garden/schema"
)

// Inspector enumerates the base tables of one database.
type Inspector interface {
	// Tables returns every base table, sorted by name. Views are excluded.
	Tables(ctx context.Context) ([]*schema.Table, error)
}

// Option configures an inspector.
type Option func(*options)

type options struct {
	schema string
}

// WithSchema restricts inspection to the given schema/namespace. Postgres
// defaults to "public", MySQL to the connection's current database.
func WithSchema(name string) Option {
	return func(o *options) {
		o.schema = name
	}
}

// Open opens a database connection for the given dialect, stripping URL
// schemes the underlying driver does not understand, and verifies the
// connection with a ping.
func Open(ctx context.Context, dialectName, dsn string) (*sql.DB, error) {
	driver, err := dialect.DriverName(dialectName)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dialect.StripScheme(dialectName, dsn))
	if err != nil {
		return nil, fmt.Errorf("inspect: open %s connection: %w", dialectName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("inspect: ping %s: %w", dialectName, err)
	}
	return db, nil
}

// New returns the inspector for the given dialect over an open connection.
func New(dialectName string, db *sql.DB, opts ...Option) (Inspector, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch dialectName {
	case dialect.Postgres:
		return &postgresInspector{db: db, schema: o.schema}, nil
	case dialect.MySQL:
		return &mysqlInspector{db: db, schema: o.schema}, nil
	case dialect.SQLite:
		return &sqliteInspector{db: db}, nil
	default:
		return nil, dialect.Validate(dialectName)
	}
}

// Database runs a full inspection and returns the assembled database model.
func Database(ctx context.Context, dialectName string, db *sql.DB, opts ...Option) (*schema.Database, error) {
	insp, err := New(dialectName, db, opts...)
	if err != nil {
		return nil, err
	}
	tables, err := insp.Tables(ctx)
	if err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	d := &schema.Database{Name: o.schema, Dialect: dialectName, Tables: tables}
	d.Sort()
	return d, nil
}
