package service

import (
	"context"
	"fmt"

	"creditbot/config"
	"creditbot/database"
)

// backupService implements the BackupService interface
type backupService struct {
	db     *database.DB
	config *config.Config
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB, cfg *config.Config) BackupService {
	return &backupService{
		db:     db,
		config: cfg,
	}
}

// Backup snapshots the store to the configured backup path and returns it
func (s *backupService) Backup(ctx context.Context) (string, error) {
	path := s.config.BackupPath
	if err := s.db.Backup(ctx, path); err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}
	return path, nil
}

// BackupTo snapshots the store to an explicit path
func (s *backupService) BackupTo(ctx context.Context, path string) error {
	if err := s.db.Backup(ctx, path); err != nil {
		return fmt.Errorf("failed to back up store: %w", err)
	}
	return nil
}
