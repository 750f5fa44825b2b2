// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Phermidex/zenithCrypto/internal/domain"
	"github.com/Phermidex/zenithCrypto/internal/repository"
	"github.com/Phermidex/zenithCrypto/internal/util"
)

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	db repository.DBExecutor
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db repository.DBExecutor) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user profile.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, first_name, last_name, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, translateError(err))
	}
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, email, first_name, last_name, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translateError(err))
	}
	return &user, nil
}

// UpdateUser overwrites the editable profile fields.
func (r *UserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, first_name = $2, last_name = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, user.Email, user.FirstName, user.LastName, user.UpdatedAt, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, translateError(err))
	}
	if err := expectOneRow(result, util.ErrNotFound); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}
