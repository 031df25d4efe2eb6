package schema

import (
	"fmt"
	"strconv"
	"strings"

	"ariga.io/atlas/sql/postgres"

	"github.com/syssam/garden/dialect"
)

// Kind is the canonical kind of a database column, independent of the
// dialect-specific type name it was declared with.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindInt64
	KindFloat
	KindDecimal
	KindString
	KindText
	KindTime
	KindUUID
	KindBytes
	KindEnum
	KindJSON
	KindOther
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindInt64:   "int64",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindString:  "string",
	KindText:    "text",
	KindTime:    "time",
	KindUUID:    "uuid",
	KindBytes:   "bytes",
	KindEnum:    "enum",
	KindJSON:    "json",
	KindOther:   "other",
}

// String returns the canonical kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Numeric reports whether the kind holds a number.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindInt64, KindFloat, KindDecimal:
		return true
	}
	return false
}

// ColumnType is the parsed form of a raw column type declaration.
type ColumnType struct {
	// Kind is the canonical kind.
	Kind Kind
	// Raw is the declaration as reported by the database, e.g. "varchar(255)".
	Raw string
	// Size is the declared length for string kinds, 0 when absent.
	Size int
	// Precision and Scale are set for decimal kinds.
	Precision int
	Scale     int
	// Enums holds the declared values for enum kinds.
	Enums []string
	// Unsigned is set for MySQL unsigned integer columns.
	Unsigned bool
}

// ParseColumnType canonicalizes a raw column type declaration. Unknown types
// never fail: they parse to KindOther so generation can degrade to a string
// mapping instead of aborting the run.
func ParseColumnType(dialectName, raw string) (*ColumnType, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("schema: empty column type")
	}
	ct := &ColumnType{Raw: raw}
	base, args, suffix := splitType(raw)
	ct.Unsigned = strings.Contains(suffix, "unsigned")

	switch base {
	case "bool", "boolean":
		ct.Kind = KindBool
	case "tinyint":
		// MySQL convention: tinyint(1) is a boolean.
		if dialectName == dialect.MySQL && len(args) == 1 && args[0] == "1" {
			ct.Kind = KindBool
		} else {
			ct.Kind = KindInt
		}
	case "smallint", "int2", "mediumint", "int", "integer", "int4":
		ct.Kind = KindInt
	case "bigint", "int8":
		ct.Kind = KindInt64
	case postgres.TypeSerial, postgres.TypeSmallSerial:
		ct.Kind = KindInt
	case postgres.TypeBigSerial:
		ct.Kind = KindInt64
	case "real", "float", "float4", "float8", "double", "double precision":
		ct.Kind = KindFloat
	case "numeric", "decimal":
		ct.Kind = KindDecimal
		if len(args) > 0 {
			ct.Precision, _ = strconv.Atoi(args[0])
		}
		if len(args) > 1 {
			ct.Scale, _ = strconv.Atoi(args[1])
		}
	case "varchar", "character varying", "char", "character", "nvarchar", "nchar", "char varying":
		ct.Kind = KindString
		if len(args) > 0 {
			ct.Size, _ = strconv.Atoi(args[0])
		}
	case "text", "tinytext", "mediumtext", "longtext", "clob":
		ct.Kind = KindText
	case "date", "time", "datetime", "timestamp", "timestamptz",
		"timestamp with time zone", "timestamp without time zone",
		"time with time zone", "time without time zone":
		ct.Kind = KindTime
	case "uuid":
		ct.Kind = KindUUID
	case "bytea", "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		ct.Kind = KindBytes
	case "enum":
		ct.Kind = KindEnum
		ct.Enums = unquote(args)
	case "json", "jsonb":
		ct.Kind = KindJSON
	default:
		ct.Kind = KindOther
	}
	return ct, nil
}

// splitType breaks "varchar(255) unsigned" into its base name, the argument
// list, and any trailing modifiers, all lowercased.
func splitType(raw string) (base string, args []string, suffix string) {
	s := strings.ToLower(strings.TrimSpace(raw))
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, ""
	}
	close := strings.LastIndexByte(s, ')')
	if close < open {
		return s, nil, ""
	}
	base = strings.TrimSpace(s[:open])
	suffix = strings.TrimSpace(s[close+1:])
	for _, a := range strings.Split(s[open+1:close], ",") {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	return base, args, suffix
}

// unquote strips the single quotes around enum values.
func unquote(args []string) []string {
	values := make([]string, 0, len(args))
	for _, a := range args {
		values = append(values, strings.Trim(a, "'"))
	}
	return values
}
