package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// The migrate driver shares the store's connection pool, so running
// migrations must leave the pool open for everything that follows.
func TestStoreWritableAfterMigrate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "credits.db"))

	_, err := db.ExecContext(ctx,
		`INSERT INTO servers (server_id, server_name) VALUES (?, ?)`, "server1", "The Lounge")
	require.NoError(t, err)

	require.NoError(t, MigrateUp(db))

	_, err = db.ExecContext(ctx,
		`INSERT INTO servers (server_id, server_name) VALUES (?, ?)`, "server2", "The Annex")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM servers`).Scan(&count))
	require.Equal(t, 2, count)
}
