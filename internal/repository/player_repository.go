package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// PlayerRepository defines the interface for player operations.
type PlayerRepository interface {
	Upsert(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	List(ctx context.Context, opts ListOptions) ([]models.Player, int, error)
	ListByTeam(ctx context.Context, teamID int64) ([]models.Player, error)
}

// PlayerSQLRepository handles database operations for the players table.
type PlayerSQLRepository struct {
	db *sql.DB
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *sql.DB) *PlayerSQLRepository {
	return &PlayerSQLRepository{db: db}
}

const playerColumns = `id, external_id, name, first_name, last_name, birth_date,
	nationality, height, weight, position, photo_url, team_id, injured,
	created_at, updated_at`

// Upsert inserts a player or refreshes it, keyed on the provider id.
func (r *PlayerSQLRepository) Upsert(ctx context.Context, player *models.Player) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO players (external_id, name, first_name, last_name, birth_date,
			nationality, height, weight, position, photo_url, team_id, injured,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"external_id"},
			[]string{"name", "first_name", "last_name", "birth_date", "nationality",
				"height", "weight", "position", "photo_url", "team_id", "injured", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		player.ExternalID, player.Name, player.FirstName, player.LastName, player.BirthDate,
		player.Nationality, player.Height, player.Weight, player.Position, player.PhotoURL,
		player.TeamID, player.Injured); err != nil {
		return fmt.Errorf("failed to upsert player %d: %w", player.ExternalID, err)
	}
	return nil
}

func scanPlayer(row rowScanner, p *models.Player) error {
	return row.Scan(&p.ID, &p.ExternalID, &p.Name, &p.FirstName, &p.LastName, &p.BirthDate,
		&p.Nationality, &p.Height, &p.Weight, &p.Position, &p.PhotoURL, &p.TeamID,
		&p.Injured, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a player by its ID.
func (r *PlayerSQLRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM players WHERE id = ?", playerColumns))

	var p models.Player
	err := scanPlayer(r.db.QueryRowContext(ctx, query, id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return &p, nil
}

// List returns a page of players plus the unpaged total. Search matches
// the player name.
func (r *PlayerSQLRepository) List(ctx context.Context, opts ListOptions) ([]models.Player, int, error) {
	opts.Normalize([]string{"name", "position", "nationality", "created_at"}, "name")

	where := ""
	args := []any{}
	if opts.Search != "" {
		where = " WHERE name ILIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM players" + where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count players: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM players%s ORDER BY %s %s LIMIT ? OFFSET ?",
		playerColumns, where, opts.Sort, opts.Order))
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return players, total, nil
}

// ListByTeam returns a team's current squad.
func (r *PlayerSQLRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.Player, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM players WHERE team_id = ? ORDER BY name ASC", playerColumns))

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query squad: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return players, nil
}
