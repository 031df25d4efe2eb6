package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "Users"},
		{"user_id", "UserID"},
		{"user_profiles", "UserProfiles"},
		{"html_page", "HTMLPage"},
		{"api_key", "APIKey"},
		{"uuid", "UUID"},
		{"created-at", "CreatedAt"},
		{"2fa_codes", "T2faCodes"},
		{"", "X"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pascal(tt.in))
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"users", "User"},
		{"user_profiles", "UserProfile"},
		{"categories", "Category"},
		{"people", "Person"},
		{"order_items", "OrderItem"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.want, typeName(tt.table))
		})
	}
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "user_profile", snake("UserProfile"))
	assert.Equal(t, "order_item", snake("OrderItem"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Email", label("email"))
	assert.Equal(t, "Created at", label("created_at"))
	// rails-style humanize drops a trailing _id.
	assert.Equal(t, "Author", label("author_id"))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "users", plural("User"))
	assert.Equal(t, "order_items", plural("OrderItem"))
	assert.Equal(t, "categories", plural("Category"))
}

func BenchmarkTypeName(b *testing.B) {
	for i := 0; i < b.N; i++ {
		typeName("http_request_logs")
	}
}
