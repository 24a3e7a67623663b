package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// LeagueRepository defines the interface for league and season operations.
type LeagueRepository interface {
	Upsert(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int64) (*models.League, error)
	GetByExternalID(ctx context.Context, externalID int64) (*models.League, error)
	List(ctx context.Context, opts ListOptions) ([]models.League, int, error)
	UpsertSeason(ctx context.Context, season *models.Season) error
	ListSeasons(ctx context.Context, leagueID int64) ([]models.Season, error)
}

// LeagueSQLRepository handles database operations for the leagues and
// seasons tables.
type LeagueSQLRepository struct {
	db *sql.DB
}

// NewLeagueRepository creates a new league repository.
func NewLeagueRepository(db *sql.DB) *LeagueSQLRepository {
	return &LeagueSQLRepository{db: db}
}

// Upsert inserts a league or refreshes it, keyed on the provider id.
func (r *LeagueSQLRepository) Upsert(ctx context.Context, league *models.League) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO leagues (external_id, name, type, logo_url, country_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"external_id"}, []string{"name", "type", "logo_url", "country_id", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		league.ExternalID, league.Name, league.Type, league.LogoURL, league.CountryID); err != nil {
		return fmt.Errorf("failed to upsert league %d: %w", league.ExternalID, err)
	}
	return nil
}

// GetByID retrieves a league by its ID.
func (r *LeagueSQLRepository) GetByID(ctx context.Context, id int64) (*models.League, error) {
	return r.getOne(ctx, "id", id)
}

// GetByExternalID retrieves a league by its provider id.
func (r *LeagueSQLRepository) GetByExternalID(ctx context.Context, externalID int64) (*models.League, error) {
	return r.getOne(ctx, "external_id", externalID)
}

func (r *LeagueSQLRepository) getOne(ctx context.Context, col string, id int64) (*models.League, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, external_id, name, type, logo_url, country_id, created_at, updated_at
		FROM leagues WHERE %s = ?`, col))

	var l models.League
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.ExternalID, &l.Name, &l.Type, &l.LogoURL, &l.CountryID, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query league: %w", err)
	}
	return &l, nil
}

// List returns a page of leagues plus the unpaged total. Search matches
// the league name.
func (r *LeagueSQLRepository) List(ctx context.Context, opts ListOptions) ([]models.League, int, error) {
	opts.Normalize([]string{"name", "type", "created_at"}, "name")

	where := ""
	args := []any{}
	if opts.Search != "" {
		where = " WHERE name ILIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM leagues" + where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leagues: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, external_id, name, type, logo_url, country_id, created_at, updated_at
		FROM leagues%s
		ORDER BY %s %s
		LIMIT ? OFFSET ?`, where, opts.Sort, opts.Order))
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leagues: %w", err)
	}
	defer rows.Close()

	var leagues []models.League
	for rows.Next() {
		var l models.League
		if err := rows.Scan(&l.ID, &l.ExternalID, &l.Name, &l.Type, &l.LogoURL, &l.CountryID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return leagues, total, nil
}

// UpsertSeason inserts or refreshes one edition of a league, keyed on
// (league_id, year).
func (r *LeagueSQLRepository) UpsertSeason(ctx context.Context, season *models.Season) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO seasons (league_id, year, start_date, end_date, current, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"league_id", "year"}, []string{"start_date", "end_date", "current", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		season.LeagueID, season.Year, season.StartDate, season.EndDate, season.Current); err != nil {
		return fmt.Errorf("failed to upsert season %d/%d: %w", season.LeagueID, season.Year, err)
	}
	return nil
}

// ListSeasons returns all editions of one league, newest first.
func (r *LeagueSQLRepository) ListSeasons(ctx context.Context, leagueID int64) ([]models.Season, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, league_id, year, start_date, end_date, current, created_at, updated_at
		FROM seasons
		WHERE league_id = ?
		ORDER BY year DESC`)

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []models.Season
	for rows.Next() {
		var s models.Season
		if err := rows.Scan(&s.ID, &s.LeagueID, &s.Year, &s.StartDate, &s.EndDate, &s.Current, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return seasons, nil
}
