package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// FixtureRepository defines the interface for fixture operations.
type FixtureRepository interface {
	Upsert(ctx context.Context, fixture *models.Fixture) error
	GetByID(ctx context.Context, id int64) (*models.Fixture, error)
	ListByLeagueSeason(ctx context.Context, leagueID int64, season int, opts ListOptions) ([]models.Fixture, int, error)
	ListByTeam(ctx context.Context, teamID int64, limit int) ([]models.Fixture, error)
	RecordResult(ctx context.Context, id int64, homeGoals, awayGoals int, status string) error
}

// FixtureSQLRepository handles database operations for the fixtures table.
// Fixtures carry the widest column set of any entity, so this repository
// scans through sqlx struct tags rather than positional Scan calls.
type FixtureSQLRepository struct {
	db *sqlx.DB
}

// NewFixtureRepository creates a new fixture repository.
func NewFixtureRepository(db *sqlx.DB) *FixtureSQLRepository {
	return &FixtureSQLRepository{db: db}
}

// Upsert inserts a fixture or refreshes it, keyed on the provider id.
func (r *FixtureSQLRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO fixtures (external_id, league_id, season, round, home_team_id,
			away_team_id, kickoff_at, venue, referee, status, home_goals, away_goals,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"external_id"},
			[]string{"round", "kickoff_at", "venue", "referee", "status",
				"home_goals", "away_goals", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		fixture.ExternalID, fixture.LeagueID, fixture.Season, fixture.Round,
		fixture.HomeTeamID, fixture.AwayTeamID, fixture.KickoffAt, fixture.Venue,
		fixture.Referee, fixture.Status, fixture.HomeGoals, fixture.AwayGoals); err != nil {
		return fmt.Errorf("failed to upsert fixture %d: %w", fixture.ExternalID, err)
	}
	return nil
}

// GetByID retrieves a fixture by its ID.
func (r *FixtureSQLRepository) GetByID(ctx context.Context, id int64) (*models.Fixture, error) {
	query := database.ConvertPlaceholders(`SELECT * FROM fixtures WHERE id = ?`)

	var f models.Fixture
	err := r.db.GetContext(ctx, &f, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query fixture: %w", err)
	}
	return &f, nil
}

// ListByLeagueSeason returns a page of fixtures for one league season
// plus the unpaged total.
func (r *FixtureSQLRepository) ListByLeagueSeason(ctx context.Context, leagueID int64, season int, opts ListOptions) ([]models.Fixture, int, error) {
	opts.Normalize([]string{"kickoff_at", "round", "status"}, "kickoff_at")

	countQuery := database.ConvertPlaceholders(
		`SELECT COUNT(*) FROM fixtures WHERE league_id = ? AND season = ?`)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, leagueID, season); err != nil {
		return nil, 0, fmt.Errorf("failed to count fixtures: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT * FROM fixtures
		WHERE league_id = ? AND season = ?
		ORDER BY %s %s
		LIMIT ? OFFSET ?`, opts.Sort, opts.Order))

	var fixtures []models.Fixture
	if err := r.db.SelectContext(ctx, &fixtures, query, leagueID, season, opts.PerPage, opts.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to query fixtures: %w", err)
	}
	return fixtures, total, nil
}

// ListByTeam returns a team's most recent fixtures, newest kickoff first.
func (r *FixtureSQLRepository) ListByTeam(ctx context.Context, teamID int64, limit int) ([]models.Fixture, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := database.ConvertPlaceholders(`
		SELECT * FROM fixtures
		WHERE home_team_id = ? OR away_team_id = ?
		ORDER BY kickoff_at DESC
		LIMIT ?`)

	var fixtures []models.Fixture
	if err := r.db.SelectContext(ctx, &fixtures, query, teamID, teamID, limit); err != nil {
		return nil, fmt.Errorf("failed to query team fixtures: %w", err)
	}
	return fixtures, nil
}

// RecordResult stores a final or in-progress score.
func (r *FixtureSQLRepository) RecordResult(ctx context.Context, id int64, homeGoals, awayGoals int, status string) error {
	query := database.ConvertPlaceholders(`
		UPDATE fixtures
		SET home_goals = ?, away_goals = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, homeGoals, awayGoals, status, id)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
