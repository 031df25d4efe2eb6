package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func col(name string, kind Kind, pk bool) *Column {
	return &Column{Name: name, Type: &ColumnType{Kind: kind}, PrimaryKey: pk}
}

func TestTableColumnLookup(t *testing.T) {
	table := NewTable("users", col("id", KindInt, true), col("name", KindString, false))

	c, ok := table.Column("name")
	require.True(t, ok)
	assert.Equal(t, KindString, c.Type.Kind)

	_, ok = table.Column("missing")
	assert.False(t, ok)
	assert.True(t, table.HasColumn("id"))
}

func TestIsJoinTable(t *testing.T) {
	t.Run("pure join table", func(t *testing.T) {
		table := NewTable("group_users", col("group_id", KindInt, true), col("user_id", KindInt, true))
		table.PrimaryKey = []string{"group_id", "user_id"}
		table.ForeignKeys = []*ForeignKey{
			{Symbol: "group_users_group_id", Columns: []string{"group_id"}, RefTable: "groups", RefColumns: []string{"id"}},
			{Symbol: "group_users_user_id", Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
		}
		assert.True(t, table.IsJoinTable())
	})

	t.Run("join table with payload column is not a join table", func(t *testing.T) {
		table := NewTable("memberships",
			col("group_id", KindInt, true),
			col("user_id", KindInt, true),
			col("joined_at", KindTime, false),
		)
		table.PrimaryKey = []string{"group_id", "user_id"}
		table.ForeignKeys = []*ForeignKey{
			{Columns: []string{"group_id"}, RefTable: "groups", RefColumns: []string{"id"}},
			{Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
		}
		assert.False(t, table.IsJoinTable())
	})

	t.Run("single fk table", func(t *testing.T) {
		table := NewTable("posts", col("id", KindInt, true), col("author_id", KindInt, false))
		table.PrimaryKey = []string{"id"}
		table.ForeignKeys = []*ForeignKey{
			{Columns: []string{"author_id"}, RefTable: "users", RefColumns: []string{"id"}},
		}
		assert.False(t, table.IsJoinTable())
	})
}

func TestDatabaseSort(t *testing.T) {
	db := &Database{Tables: []*Table{NewTable("users"), NewTable("comments"), NewTable("posts")}}
	db.Sort()
	names := make([]string, 0, len(db.Tables))
	for _, table := range db.Tables {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{"comments", "posts", "users"}, names)

	table, ok := db.Table("posts")
	require.True(t, ok)
	assert.Equal(t, "posts", table.Name)
	_, ok = db.Table("missing")
	assert.False(t, ok)
}
