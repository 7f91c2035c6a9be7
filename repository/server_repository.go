package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creditbot/database"
	"creditbot/models"
)

// ServerRepository implements the ServerRepository interface
type ServerRepository struct {
	q queryable
}

// NewServerRepository creates a new server repository
func NewServerRepository(db *database.DB) *ServerRepository {
	return &ServerRepository{q: db.DB}
}

// newServerRepositoryWithTx creates a new server repository with a transaction
func newServerRepositoryWithTx(tx queryable) *ServerRepository {
	return &ServerRepository{q: tx}
}

// Upsert registers a server or refreshes its name, reactivating it if it
// was marked inactive. last_updated only moves when the name actually
// changed.
func (r *ServerRepository) Upsert(ctx context.Context, serverID, serverName string) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO servers (server_id, server_name, joined_date, last_updated, active)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT (server_id) DO UPDATE SET
			last_updated = CASE
				WHEN servers.server_name <> excluded.server_name THEN excluded.last_updated
				ELSE servers.last_updated
			END,
			server_name = excluded.server_name,
			active = 1
	`

	if _, err := r.q.ExecContext(ctx, query, serverID, serverName, now, now); err != nil {
		return fmt.Errorf("failed to upsert server %s: %w", serverID, err)
	}

	return nil
}

// Get retrieves a server by ID
func (r *ServerRepository) Get(ctx context.Context, serverID string) (*models.Server, error) {
	query := `
		SELECT server_id, server_name, joined_date, last_updated, active
		FROM servers
		WHERE server_id = ?
	`

	var server models.Server
	err := r.q.QueryRowContext(ctx, query, serverID).Scan(
		&server.ServerID,
		&server.ServerName,
		&server.JoinedDate,
		&server.LastUpdated,
		&server.Active,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server %s: %w", serverID, err)
	}

	return &server, nil
}

// SetActive marks a server active or inactive
func (r *ServerRepository) SetActive(ctx context.Context, serverID string, active bool) error {
	query := `
		UPDATE servers
		SET active = ?
		WHERE server_id = ?
	`

	result, err := r.q.ExecContext(ctx, query, active, serverID)
	if err != nil {
		return fmt.Errorf("failed to update server %s: %w", serverID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update for server %s: %w", serverID, err)
	}
	if rows == 0 {
		return fmt.Errorf("server %s not found", serverID)
	}

	return nil
}
