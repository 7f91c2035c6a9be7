package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"creditbot/database"
	"creditbot/models"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.DB}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// Upsert registers a user or refreshes username, discriminator and
// last_seen. last_username_change only moves when the identity fields
// actually differ from what is stored; IS NOT keeps the comparison sound
// for NULL discriminators.
func (r *UserRepository) Upsert(ctx context.Context, userID, username, discriminator string) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO users (user_id, username, discriminator, created_date, last_seen)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			last_username_change = CASE
				WHEN users.username IS NOT excluded.username
					OR users.discriminator IS NOT excluded.discriminator
				THEN excluded.last_seen
				ELSE users.last_username_change
			END,
			username = excluded.username,
			discriminator = excluded.discriminator,
			last_seen = excluded.last_seen
	`

	if _, err := r.q.ExecContext(ctx, query, userID, username, nullString(discriminator), now, now); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", userID, err)
	}

	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, username, discriminator, created_date, last_seen, last_username_change
		FROM users
		WHERE user_id = ?
	`

	var user models.User
	var discriminator sql.NullString
	var usernameChange sql.NullTime
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.Username,
		&discriminator,
		&user.CreatedDate,
		&user.LastSeen,
		&usernameChange,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	user.Discriminator = discriminator.String
	if usernameChange.Valid {
		changed := usernameChange.Time
		user.LastUsernameChange = &changed
	}

	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
