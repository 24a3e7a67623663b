package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// TransferRepository defines the interface for transfer operations.
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	ListByPlayer(ctx context.Context, playerID int64) ([]models.Transfer, error)
	ListByTeam(ctx context.Context, teamID int64) ([]models.Transfer, error)
}

// TransferSQLRepository handles database operations for the transfers table.
type TransferSQLRepository struct {
	db *sql.DB
}

// NewTransferRepository creates a new transfer repository.
func NewTransferRepository(db *sql.DB) *TransferSQLRepository {
	return &TransferSQLRepository{db: db}
}

// Create records a transfer.
func (r *TransferSQLRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO transfers (player_id, from_team_id, to_team_id, date, type, fee, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)

	if _, err := r.db.ExecContext(ctx, query,
		transfer.PlayerID, transfer.FromTeamID, transfer.ToTeamID,
		transfer.Date, transfer.Type, transfer.Fee); err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

// ListByPlayer returns a player's transfer history, newest first.
func (r *TransferSQLRepository) ListByPlayer(ctx context.Context, playerID int64) ([]models.Transfer, error) {
	return r.list(ctx, "player_id = ?", playerID)
}

// ListByTeam returns transfers into or out of a team, newest first.
func (r *TransferSQLRepository) ListByTeam(ctx context.Context, teamID int64) ([]models.Transfer, error) {
	return r.list(ctx, "(from_team_id = ? OR to_team_id = ?)", teamID, teamID)
}

func (r *TransferSQLRepository) list(ctx context.Context, cond string, args ...any) ([]models.Transfer, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, player_id, from_team_id, to_team_id, date, type, fee, created_at
		FROM transfers WHERE %s ORDER BY date DESC`, cond))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.ID, &t.PlayerID, &t.FromTeamID, &t.ToTeamID,
			&t.Date, &t.Type, &t.Fee, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return transfers, nil
}
