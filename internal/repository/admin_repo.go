package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cityguide-blog-api/internal/database"
	"github.com/cityguide-blog-api/internal/models"
)

// adminRepo is the concrete implementation of AdminRepository
type adminRepo struct {
	db *database.DB
}

// NewAdminRepo creates a new admin repository
func NewAdminRepo(db *database.DB) AdminRepository {
	return &adminRepo{db: db}
}

// Create inserts a new admin account
func (r *adminRepo) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if _, ok := uniqueConstraint(err); ok {
		return fmt.Errorf("%w: %v", ErrDuplicateAdmin, err)
	}
	return err
}

// GetByUsername retrieves an admin by username, or nil when none exists
func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM admin_users WHERE username = $1`

	var user models.AdminUser
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameExists checks if a username is taken
func (r *adminRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM admin_users WHERE username = $1)", username).Scan(&exists)
	return exists, err
}

// EmailExists checks if an email is registered, ignoring case
func (r *adminRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM admin_users WHERE LOWER(email) = LOWER($1))", email).Scan(&exists)
	return exists, err
}

// UpdatePassword stores a new password hash
func (r *adminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE admin_users SET password_hash = $2, updated_at = $3 WHERE id = $1",
		id, passwordHash, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
