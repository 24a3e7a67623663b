package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// UserRepository defines the interface for user account operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// UserSQLRepository handles database operations for the users table.
type UserSQLRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sql.DB) *UserSQLRepository {
	return &UserSQLRepository{db: db}
}

// Create stores a new account and fills in the assigned ID.
func (r *UserSQLRepository) Create(ctx context.Context, user *models.User) error {
	if database.IsPostgreSQL() {
		query := database.ConvertPlaceholders(`
			INSERT INTO users (username, email, password_hash, avatar_url, created_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			RETURNING id`)
		if err := r.db.QueryRowContext(ctx, query,
			user.Username, user.Email, user.PasswordHash, user.AvatarURL).Scan(&user.ID); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	query := database.ConvertPlaceholders(`
		INSERT INTO users (username, email, password_hash, avatar_url, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserSQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByUsername retrieves a user by username.
func (r *UserSQLRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "username = ?", username)
}

func (r *UserSQLRepository) getOne(ctx context.Context, cond string, arg any) (*models.User, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, username, email, password_hash, avatar_url, created_at
		FROM users WHERE %s`, cond))

	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (r *UserSQLRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`)

	var count int
	if err := r.db.QueryRowContext(ctx, query, username, email).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
