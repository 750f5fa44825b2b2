// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/Phermidex/zenithCrypto/internal/domain"
)

// UserRepository defines the interface for user profile operations.
type UserRepository interface {
	// CreateUser adds a profile; util.ErrDuplicateEntry if the id is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByID retrieves a profile, or util.ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateUser overwrites the editable fields of a profile.
	UpdateUser(ctx context.Context, user *domain.User) error
}
