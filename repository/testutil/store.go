package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"creditbot/database"

	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated store in the test's temp directory and closes
// it when the test finishes.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credits.db")
	db, err := database.NewConnection(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.MigrateUp(db))

	return db
}

// SeedIdentity inserts a server and user so balance and ledger rows
// satisfy their foreign keys.
func SeedIdentity(t *testing.T, db *database.DB, serverID, userID string) {
	t.Helper()

	ctx := context.Background()
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO servers (server_id, server_name) VALUES (?, ?)`,
		serverID, "server-"+serverID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id, username) VALUES (?, ?)`,
		userID, "user-"+userID)
	require.NoError(t, err)
}
