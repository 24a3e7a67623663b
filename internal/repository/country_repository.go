package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

// CountryRepository defines the interface for country operations.
type CountryRepository interface {
	Upsert(ctx context.Context, country *models.Country) error
	GetByID(ctx context.Context, id int64) (*models.Country, error)
	GetByCode(ctx context.Context, code string) (*models.Country, error)
	GetByName(ctx context.Context, name string) (*models.Country, error)
	List(ctx context.Context, opts ListOptions) ([]models.Country, int, error)
}

// CountrySQLRepository handles database operations for the countries table.
type CountrySQLRepository struct {
	db *sql.DB
}

// NewCountryRepository creates a new country repository.
func NewCountryRepository(db *sql.DB) *CountrySQLRepository {
	return &CountrySQLRepository{db: db}
}

// Upsert inserts a country or refreshes its name and flag, keyed on the
// ISO code. Running an import twice leaves one row per country.
func (r *CountrySQLRepository) Upsert(ctx context.Context, country *models.Country) error {
	query := database.ConvertPlaceholders(`
		INSERT INTO countries (name, code, flag_url, created_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`) +
		database.UpsertSuffix([]string{"code"}, []string{"name", "flag_url", "updated_at"})

	if _, err := r.db.ExecContext(ctx, query, country.Name, country.Code, country.FlagURL); err != nil {
		return fmt.Errorf("failed to upsert country %s: %w", country.Code, err)
	}
	return nil
}

// GetByID retrieves a country by its ID.
func (r *CountrySQLRepository) GetByID(ctx context.Context, id int64) (*models.Country, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, name, code, flag_url, created_at, updated_at
		FROM countries WHERE id = ?`)

	var c models.Country
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.FlagURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country: %w", err)
	}
	return &c, nil
}

// GetByCode retrieves a country by its ISO code.
func (r *CountrySQLRepository) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	return r.getOne(ctx, "code = ?", code)
}

// GetByName retrieves a country by its display name. The provider keys
// team records on the country name, not the ISO code.
func (r *CountrySQLRepository) GetByName(ctx context.Context, name string) (*models.Country, error) {
	return r.getOne(ctx, "name = ?", name)
}

func (r *CountrySQLRepository) getOne(ctx context.Context, cond string, arg any) (*models.Country, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, name, code, flag_url, created_at, updated_at
		FROM countries WHERE %s`, cond))

	var c models.Country
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Code, &c.FlagURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country: %w", err)
	}
	return &c, nil
}

// List returns a page of countries plus the unpaged total.
func (r *CountrySQLRepository) List(ctx context.Context, opts ListOptions) ([]models.Country, int, error) {
	opts.Normalize([]string{"name", "code", "created_at"}, "name")

	where := ""
	args := []any{}
	if opts.Search != "" {
		where = " WHERE name ILIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM countries" + where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count countries: %w", err)
	}

	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT id, name, code, flag_url, created_at, updated_at
		FROM countries%s
		ORDER BY %s %s
		LIMIT ? OFFSET ?`, where, opts.Sort, opts.Order))
	args = append(args, opts.PerPage, opts.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.FlagURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	return countries, total, nil
}
