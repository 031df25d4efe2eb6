// Package dialect identifies the database backends garden can introspect.
//
// Each backend is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// Detect guesses the dialect from a connection string so the CLI can be
// pointed at a database without further flags:
//
//	d, err := dialect.Detect("postgres://app@localhost/app?sslmode=disable")
//
// DriverName maps a dialect to the database/sql driver name registered by
// lib/pq, go-sql-driver/mysql, or modernc.org/sqlite respectively.
package dialect
