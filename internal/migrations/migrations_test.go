package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	for name, fsys := range map[string]fs.FS{"sqlite": SQLite(), "postgres": Postgres()} {
		t.Run(name, func(t *testing.T) {
			files, err := fs.Glob(fsys, "*.sql")
			require.NoError(t, err)
			assert.Equal(t, []string{"00001_create_users.sql", "00002_create_predictions.sql"}, files)

			for _, f := range files {
				b, err := fs.ReadFile(fsys, f)
				require.NoError(t, err)
				assert.Contains(t, string(b), "-- +goose Up")
				assert.Contains(t, string(b), "-- +goose Down")
			}
		})
	}
}
