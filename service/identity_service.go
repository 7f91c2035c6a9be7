package service

import (
	"context"
	"fmt"
)

// identityService implements the IdentityService interface
type identityService struct {
	serverRepo ServerRepository
	userRepo   UserRepository
}

// NewIdentityService creates a new identity service
func NewIdentityService(serverRepo ServerRepository, userRepo UserRepository) IdentityService {
	return &identityService{
		serverRepo: serverRepo,
		userRepo:   userRepo,
	}
}

// EnsureServer registers or refreshes a server record
func (s *identityService) EnsureServer(ctx context.Context, serverID, serverName string) error {
	if err := s.serverRepo.Upsert(ctx, serverID, serverName); err != nil {
		return fmt.Errorf("failed to ensure server %s: %w", serverID, err)
	}
	return nil
}

// EnsureUser registers or refreshes a user record
func (s *identityService) EnsureUser(ctx context.Context, userID, username, discriminator string) error {
	if err := s.userRepo.Upsert(ctx, userID, username, discriminator); err != nil {
		return fmt.Errorf("failed to ensure user %s: %w", userID, err)
	}
	return nil
}
