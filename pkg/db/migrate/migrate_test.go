package migrate

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestToMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgresql://u:p@host:5432/db", "pgx5://u:p@host:5432/db"},
		{"postgres://u:p@host/db?sslmode=disable", "pgx5://u:p@host/db?sslmode=disable"},
		{"pgx5://host/db", "pgx5://host/db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toMigrateURL(tt.in))
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	assert.NilError(t, err)
	assert.Assert(t, len(entries) >= 2)
}
