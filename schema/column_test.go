package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/garden/dialect"
)

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		raw     string
		want    ColumnType
	}{
		{"varchar with size", dialect.Postgres, "varchar(255)", ColumnType{Kind: KindString, Size: 255}},
		{"character varying", dialect.Postgres, "character varying(80)", ColumnType{Kind: KindString, Size: 80}},
		{"char", dialect.MySQL, "char(2)", ColumnType{Kind: KindString, Size: 2}},
		{"text", dialect.Postgres, "text", ColumnType{Kind: KindText}},
		{"longtext", dialect.MySQL, "longtext", ColumnType{Kind: KindText}},
		{"boolean", dialect.Postgres, "boolean", ColumnType{Kind: KindBool}},
		{"mysql tinyint(1)", dialect.MySQL, "tinyint(1)", ColumnType{Kind: KindBool}},
		{"mysql tinyint(4)", dialect.MySQL, "tinyint(4)", ColumnType{Kind: KindInt}},
		{"sqlite tinyint(1)", dialect.SQLite, "tinyint(1)", ColumnType{Kind: KindInt}},
		{"integer", dialect.SQLite, "INTEGER", ColumnType{Kind: KindInt}},
		{"bigint", dialect.Postgres, "bigint", ColumnType{Kind: KindInt64}},
		{"serial", dialect.Postgres, "serial", ColumnType{Kind: KindInt}},
		{"bigserial", dialect.Postgres, "bigserial", ColumnType{Kind: KindInt64}},
		{"unsigned int", dialect.MySQL, "int(10) unsigned", ColumnType{Kind: KindInt, Unsigned: true}},
		{"double precision", dialect.Postgres, "double precision", ColumnType{Kind: KindFloat}},
		{"numeric", dialect.Postgres, "numeric(10,2)", ColumnType{Kind: KindDecimal, Precision: 10, Scale: 2}},
		{"timestamptz", dialect.Postgres, "timestamp with time zone", ColumnType{Kind: KindTime}},
		{"datetime", dialect.MySQL, "datetime", ColumnType{Kind: KindTime}},
		{"uuid", dialect.Postgres, "uuid", ColumnType{Kind: KindUUID}},
		{"bytea", dialect.Postgres, "bytea", ColumnType{Kind: KindBytes}},
		{"varbinary", dialect.MySQL, "varbinary(16)", ColumnType{Kind: KindBytes}},
		{"enum", dialect.MySQL, "enum('draft','published','archived')", ColumnType{Kind: KindEnum, Enums: []string{"draft", "published", "archived"}}},
		{"jsonb", dialect.Postgres, "jsonb", ColumnType{Kind: KindJSON}},
		{"unknown degrades", dialect.Postgres, "tsvector", ColumnType{Kind: KindOther}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColumnType(tt.dialect, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind, "kind")
			assert.Equal(t, tt.want.Size, got.Size, "size")
			assert.Equal(t, tt.want.Precision, got.Precision, "precision")
			assert.Equal(t, tt.want.Scale, got.Scale, "scale")
			assert.Equal(t, tt.want.Enums, got.Enums, "enums")
			assert.Equal(t, tt.want.Unsigned, got.Unsigned, "unsigned")
			assert.Equal(t, tt.raw, got.Raw, "raw preserved")
		})
	}
}

func TestParseColumnTypeEmpty(t *testing.T) {
	_, err := ParseColumnType(dialect.Postgres, "  ")
	require.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "invalid", Kind(0).String())
	assert.Equal(t, "invalid", Kind(200).String())
}

func TestKindNumeric(t *testing.T) {
	assert.True(t, KindInt.Numeric())
	assert.True(t, KindDecimal.Numeric())
	assert.False(t, KindString.Numeric())
	assert.False(t, KindBool.Numeric())
}
