package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()
	db, err := NewConnection(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, MigrateUp(db))
	return db
}

func TestBackupAndRestore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "credits.db")
	backupPath := filepath.Join(dir, "backups", "credits_backup.db")

	db := openTestDB(t, storePath)
	_, err := db.ExecContext(ctx,
		`INSERT INTO servers (server_id, server_name) VALUES (?, ?)`, "server1", "The Lounge")
	require.NoError(t, err)

	t.Run("snapshot carries the data", func(t *testing.T) {
		require.NoError(t, db.Backup(ctx, backupPath))

		snapshot, err := NewConnection(ctx, backupPath)
		require.NoError(t, err)
		defer snapshot.Close()

		var name string
		err = snapshot.QueryRowContext(ctx,
			`SELECT server_name FROM servers WHERE server_id = ?`, "server1").Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "The Lounge", name)
	})

	t.Run("backup overwrites a previous snapshot", func(t *testing.T) {
		require.NoError(t, db.Backup(ctx, backupPath))
		require.NoError(t, db.Backup(ctx, backupPath))
	})

	t.Run("restore brings back snapshotted state", func(t *testing.T) {
		require.NoError(t, db.Backup(ctx, backupPath))

		// Writes after the snapshot are lost on restore
		_, err := db.ExecContext(ctx,
			`INSERT INTO servers (server_id, server_name) VALUES (?, ?)`, "server2", "Latecomer")
		require.NoError(t, err)

		db.Close()

		restoredPath := filepath.Join(dir, "restored.db")
		require.NoError(t, RestoreFile(backupPath, restoredPath))

		restored, err := NewConnection(ctx, restoredPath)
		require.NoError(t, err)
		defer restored.Close()

		var count int
		require.NoError(t, restored.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM servers`).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "credits.db"))
	require.NoError(t, MigrateUp(db))
}
