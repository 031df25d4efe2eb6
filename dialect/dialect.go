package dialect

import (
	"fmt"
	"strings"
)

// Supported dialect names.
const (
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
	// MySQL is the MySQL/MariaDB dialect.
	MySQL = "mysql"
	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
)

// All returns the supported dialect names in stable order.
func All() []string {
	return []string{Postgres, MySQL, SQLite}
}

// Validate reports whether the given name is a supported dialect.
func Validate(name string) error {
	switch name {
	case Postgres, MySQL, SQLite:
		return nil
	case "":
		return fmt.Errorf("dialect: missing dialect name")
	default:
		return fmt.Errorf("dialect: unsupported dialect %q; use %s", name, strings.Join(All(), ", "))
	}
}

// DriverName returns the database/sql driver name registered for the dialect.
func DriverName(name string) (string, error) {
	switch name {
	case Postgres:
		return "postgres", nil
	case MySQL:
		return "mysql", nil
	case SQLite:
		// modernc.org/sqlite registers itself as "sqlite".
		return "sqlite", nil
	default:
		return "", Validate(name)
	}
}

// Detect guesses the dialect from a connection string. It recognizes
// URL-style DSNs (postgres://, mysql://, sqlite://), the mysql driver's
// user:pass@tcp(host)/db form, and bare SQLite file paths.
func Detect(dsn string) (string, error) {
	switch {
	case dsn == "":
		return "", fmt.Errorf("dialect: empty connection string")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return MySQL, nil
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "sqlite3://"), strings.HasPrefix(dsn, "file:"):
		return SQLite, nil
	case strings.Contains(dsn, "@tcp(") || strings.Contains(dsn, "@unix("):
		return MySQL, nil
	case strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname="):
		// Space-separated keyword form used by lib/pq.
		return Postgres, nil
	case strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite") || strings.HasSuffix(dsn, ".sqlite3") || dsn == ":memory:":
		return SQLite, nil
	default:
		return "", fmt.Errorf("dialect: cannot detect dialect from %q; set it explicitly", dsn)
	}
}

// StripScheme removes a URL scheme that database/sql drivers do not accept.
// The mysql driver expects user:pass@tcp(host)/db without the mysql://
// prefix, and the sqlite driver expects a file path or file: URI.
func StripScheme(dialect, dsn string) string {
	switch dialect {
	case MySQL:
		return strings.TrimPrefix(dsn, "mysql://")
	case SQLite:
		dsn = strings.TrimPrefix(dsn, "sqlite3://")
		return strings.TrimPrefix(dsn, "sqlite://")
	default:
		return dsn
	}
}
