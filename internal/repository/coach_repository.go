package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// CoachRepository defines the interface for coach operations.
type CoachRepository interface {
	Upsert(ctx context.Context, coach *models.Coach) error
	GetByID(ctx context.Context, id int64) (*models.Coach, error)
	GetByTeam(ctx context.Context, teamID int64) (*models.Coach, error)
}

// CoachSQLRepository handles database operations for the coaches table.
type CoachSQLRepository struct {
	db *sql.DB
}

// NewCoachRepository creates a new coach repository.
func NewCoachRepository(db *sql.DB) *CoachSQLRepository {
	return &CoachSQLRepository{db: db}
}

// Upsert inserts a coach or refreshes it, keyed on the provider id.
func (r *CoachSQLRepository) Upsert(ctx context.Context, coach *models.Coach) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO coaches (external_id, name, nationality, birth_date, photo_url, team_id,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"external_id"},
			[]string{"name", "nationality", "birth_date", "photo_url", "team_id", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		coach.ExternalID, coach.Name, coach.Nationality, coach.BirthDate,
		coach.PhotoURL, coach.TeamID); err != nil {
		return fmt.Errorf("failed to upsert coach %d: %w", coach.ExternalID, err)
	}
	return nil
}

// GetByID retrieves a coach by its ID.
func (r *CoachSQLRepository) GetByID(ctx context.Context, id int64) (*models.Coach, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByTeam retrieves a team's current coach.
func (r *CoachSQLRepository) GetByTeam(ctx context.Context, teamID int64) (*models.Coach, error) {
	return r.getOne(ctx, "team_id = ?", teamID)
}

func (r *CoachSQLRepository) getOne(ctx context.Context, cond string, arg any) (*models.Coach, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, external_id, name, nationality, birth_date, photo_url, team_id,
			created_at, updated_at
		FROM coaches WHERE %s`, cond))

	var c models.Coach
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.ExternalID, &c.Name, &c.Nationality, &c.BirthDate,
		&c.PhotoURL, &c.TeamID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query coach: %w", err)
	}
	return &c, nil
}
