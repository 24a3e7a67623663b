package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// TeamRepository defines the interface for team operations, including
// the league-season membership mappings the import routine writes.
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetByExternalID(ctx context.Context, externalID int64) (*models.Team, error)
	List(ctx context.Context, opts ListOptions) ([]models.Team, int, error)
	ListByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]models.Team, error)
	LinkLeagueSeason(ctx context.Context, mapping *models.TeamLeagueSeason) (bool, error)
}

// TeamSQLRepository handles database operations for the teams and
// team_league_seasons tables.
type TeamSQLRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *sql.DB) *TeamSQLRepository {
	return &TeamSQLRepository{db: db}
}

const teamColumns = `id, external_id, name, code, country_id, founded, national,
	logo_url, venue_name, venue_city, venue_capacity, created_at, updated_at`

// Upsert inserts a team or refreshes it, keyed on the provider id.
// Imports may run repeatedly for the same league season; this keeps one
// row per team.
func (r *TeamSQLRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO teams (external_id, name, code, country_id, founded, national,
			logo_url, venue_name, venue_city, venue_capacity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"external_id"},
			[]string{"name", "code", "country_id", "founded", "national",
				"logo_url", "venue_name", "venue_city", "venue_capacity", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query,
		team.ExternalID, team.Name, team.Code, team.CountryID, team.Founded, team.National,
		team.LogoURL, team.VenueName, team.VenueCity, team.VenueCapacity); err != nil {
		return fmt.Errorf("failed to upsert team %d: %w", team.ExternalID, err)
	}
	return nil
}

// GetByID retrieves a team by its ID.
func (r *TeamSQLRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	return r.getOne(ctx, "id", id)
}

// GetByExternalID retrieves a team by its provider id.
func (r *TeamSQLRepository) GetByExternalID(ctx context.Context, externalID int64) (*models.Team, error) {
	return r.getOne(ctx, "external_id", externalID)
}

func (r *TeamSQLRepository) getOne(ctx context.Context, col string, id int64) (*models.Team, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM teams WHERE %s = ?", teamColumns, col))

	var t models.Team
	err := scanTeam(r.db.QueryRowContext(ctx, query, id), &t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query team: %w", err)
	}
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner, t *models.Team) error {
	return row.Scan(&t.ID, &t.ExternalID, &t.Name, &t.Code, &t.CountryID, &t.Founded,
		&t.National, &t.LogoURL, &t.VenueName, &t.VenueCity, &t.VenueCapacity,
		&t.CreatedAt, &t.UpdatedAt)
}

// List returns a page of teams plus the unpaged total. Search matches
// the team name.
func (r *TeamSQLRepository) List(ctx context.Context, opts ListOptions) ([]models.Team, int, error) {
	opts.Normalize([]string{"name", "founded", "created_at"}, "name")

	where := ""
	args := []any{}
	if opts.Search != "" {
		where = " WHERE name ILIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM teams" + where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count teams: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM teams%s ORDER BY %s %s LIMIT ? OFFSET ?",
		teamColumns, where, opts.Sort, opts.Order))
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, 0, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return teams, total, nil
}

// ListByLeagueSeason returns the teams registered for one league season.
func (r *TeamSQLRepository) ListByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]models.Team, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT %s FROM teams t
		INNER JOIN team_league_seasons tls ON tls.team_id = t.id
		WHERE tls.league_id = ? AND tls.season = ?
		ORDER BY t.name ASC`,
		`t.id, t.external_id, t.name, t.code, t.country_id, t.founded, t.national,
		t.logo_url, t.venue_name, t.venue_city, t.venue_capacity, t.created_at, t.updated_at`))

	rows, err := r.db.QueryContext(ctx, query, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query league season teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := scanTeam(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return teams, nil
}

// LinkLeagueSeason records a team's membership in a league season. It
// reports whether a new row was created; an existing mapping is left
// untouched so repeated imports stay idempotent.
func (r *TeamSQLRepository) LinkLeagueSeason(ctx context.Context, mapping *models.TeamLeagueSeason) (bool, error) {
	var query string
	if database.IsMySQL() {
		query = database.ConvertPlaceholders(`
			INSERT IGNORE INTO team_league_seasons (team_id, league_id, season)
			VALUES (?, ?, ?)`)
	} else {
		query = database.ConvertPlaceholders(`
			INSERT INTO team_league_seasons (team_id, league_id, season)
			VALUES (?, ?, ?)
			ON CONFLICT (team_id, league_id, season) DO NOTHING`)
	}

	result, err := r.db.ExecContext(ctx, query, mapping.TeamID, mapping.LeagueID, mapping.Season)
	if err != nil {
		return false, fmt.Errorf("failed to link team %d to league %d season %d: %w",
			mapping.TeamID, mapping.LeagueID, mapping.Season, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
