// Package service holds the business logic between HTTP handlers and
// repositories.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/kickoffhub/kickoffhub/internal/cache"
	"github.com/kickoffhub/kickoffhub/internal/footballdata"
	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

// Provider is the slice of the football-data client the imports need.
type Provider interface {
	Teams(ctx context.Context, leagueID int64, season int) ([]footballdata.TeamEntry, error)
	Countries(ctx context.Context) ([]footballdata.ProviderCountry, error)
}

// ImportResult summarizes one teams-import run.
type ImportResult struct {
	LeagueID        int64 `json:"league_id"`
	Season          int   `json:"season"`
	TeamsImported   int   `json:"teams_imported"`
	MappingsCreated int   `json:"mappings_created"`
}

// String renders the result for worker logs.
func (r *ImportResult) String() string {
	return fmt.Sprintf("league=%d season=%d teams=%d mappings=%d",
		r.LeagueID, r.Season, r.TeamsImported, r.MappingsCreated)
}

// ImportService pulls reference data from the football-data provider
// into the local database. The same routine backs the background worker
// and the synchronous import command, so it must stay idempotent.
type ImportService struct {
	fetcher   Provider
	teams     repository.TeamRepository
	leagues   repository.LeagueRepository
	countries repository.CountryRepository
	cache     *cache.RedisCache
	logger    *log.Logger
}

// NewImportService creates an import service. cache may be nil.
func NewImportService(
	fetcher Provider,
	teams repository.TeamRepository,
	leagues repository.LeagueRepository,
	countries repository.CountryRepository,
	c *cache.RedisCache,
	logger *log.Logger,
) *ImportService {
	if logger == nil {
		logger = log.Default()
	}
	return &ImportService{
		fetcher:   fetcher,
		teams:     teams,
		leagues:   leagues,
		countries: countries,
		cache:     c,
		logger:    logger,
	}
}

// ImportTeams fetches every team registered for the given league season,
// upserts them and records their league-season membership. Teams are
// written before memberships so a mapping never references a missing
// team. Re-running the import refreshes team data and creates no
// duplicate rows.
func (s *ImportService) ImportTeams(ctx context.Context, leagueID int64, season int) (*ImportResult, error) {
	entries, err := s.fetcher.Teams(ctx, leagueID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch teams for league %d season %d: %w", leagueID, season, err)
	}

	result := &ImportResult{LeagueID: leagueID, Season: season}
	for _, entry := range entries {
		team := s.toTeam(ctx, entry)
		if err := s.teams.Upsert(ctx, team); err != nil {
			return result, err
		}
		result.TeamsImported++

		stored, err := s.teams.GetByExternalID(ctx, team.ExternalID)
		if err != nil {
			return result, fmt.Errorf("reload team %d: %w", team.ExternalID, err)
		}

		created, err := s.teams.LinkLeagueSeason(ctx, &models.TeamLeagueSeason{
			TeamID:   stored.ID,
			LeagueID: leagueID,
			Season:   season,
		})
		if err != nil {
			return result, err
		}
		if created {
			result.MappingsCreated++
		}
	}

	if err := s.cache.InvalidatePrefix(ctx, cache.Prefix("teams")); err != nil {
		s.logger.Printf("import: cache invalidation failed: %v", err)
	}

	s.logger.Printf("import: %s", result)
	return result, nil
}

// toTeam maps a provider entry onto the local model. Unknown countries
// leave country_id null rather than failing the import.
func (s *ImportService) toTeam(ctx context.Context, entry footballdata.TeamEntry) *models.Team {
	team := &models.Team{
		ExternalID: entry.Team.ID,
		Name:       entry.Team.Name,
		Code:       entry.Team.Code,
		National:   entry.Team.National,
		LogoURL:    entry.Team.Logo,
		VenueName:  entry.Venue.Name,
		VenueCity:  entry.Venue.City,
	}
	if entry.Team.Founded > 0 {
		team.Founded = sql.NullInt64{Int64: int64(entry.Team.Founded), Valid: true}
	}
	if entry.Venue.Capacity > 0 {
		team.VenueCapacity = sql.NullInt64{Int64: int64(entry.Venue.Capacity), Valid: true}
	}

	if entry.Team.Country != "" {
		country, err := s.countries.GetByName(ctx, entry.Team.Country)
		if err == nil {
			team.CountryID = sql.NullInt64{Int64: country.ID, Valid: true}
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Printf("import: resolve country %q: %v", entry.Team.Country, err)
		}
	}
	return team
}

// ImportCountries refreshes the countries table from the provider. Run
// by the football module's nightly task.
func (s *ImportService) ImportCountries(ctx context.Context) (int, error) {
	list, err := s.fetcher.Countries(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch countries: %w", err)
	}

	count := 0
	for _, pc := range list {
		if pc.Code == "" {
			continue
		}
		err := s.countries.Upsert(ctx, &models.Country{
			Name:    pc.Name,
			Code:    pc.Code,
			FlagURL: pc.Flag,
		})
		if err != nil {
			return count, err
		}
		count++
	}

	if err := s.cache.InvalidatePrefix(ctx, cache.Prefix("countries")); err != nil {
		s.logger.Printf("import: cache invalidation failed: %v", err)
	}
	return count, nil
}
