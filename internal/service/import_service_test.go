package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/kickoffhub/kickoffhub/internal/footballdata"
	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

type fakeProvider struct {
	teams     []footballdata.TeamEntry
	countries []footballdata.ProviderCountry
	err       error
}

func (f *fakeProvider) Teams(ctx context.Context, leagueID int64, season int) ([]footballdata.TeamEntry, error) {
	return f.teams, f.err
}

func (f *fakeProvider) Countries(ctx context.Context) ([]footballdata.ProviderCountry, error) {
	return f.countries, f.err
}

type fakeTeamRepo struct {
	byExternal map[int64]*models.Team
	links      map[models.TeamLeagueSeason]bool
	nextID     int64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		byExternal: make(map[int64]*models.Team),
		links:      make(map[models.TeamLeagueSeason]bool),
	}
}

func (f *fakeTeamRepo) Upsert(ctx context.Context, team *models.Team) error {
	if existing, ok := f.byExternal[team.ExternalID]; ok {
		team.ID = existing.ID
	} else {
		f.nextID++
		team.ID = f.nextID
	}
	clone := *team
	f.byExternal[team.ExternalID] = &clone
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	for _, t := range f.byExternal {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTeamRepo) GetByExternalID(ctx context.Context, externalID int64) (*models.Team, error) {
	t, ok := f.byExternal[externalID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTeamRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Team, int, error) {
	return nil, 0, nil
}

func (f *fakeTeamRepo) ListByLeagueSeason(ctx context.Context, leagueID int64, season int) ([]models.Team, error) {
	var teams []models.Team
	for _, t := range f.byExternal {
		if f.links[models.TeamLeagueSeason{TeamID: t.ID, LeagueID: leagueID, Season: season}] {
			teams = append(teams, *t)
		}
	}
	return teams, nil
}

func (f *fakeTeamRepo) LinkLeagueSeason(ctx context.Context, mapping *models.TeamLeagueSeason) (bool, error) {
	if f.links[*mapping] {
		return false, nil
	}
	f.links[*mapping] = true
	return true, nil
}

type fakeCountryRepo struct {
	byName map[string]*models.Country
}

func (f *fakeCountryRepo) Upsert(ctx context.Context, c *models.Country) error {
	if f.byName == nil {
		f.byName = make(map[string]*models.Country)
	}
	clone := *c
	clone.ID = int64(len(f.byName) + 1)
	f.byName[c.Name] = &clone
	return nil
}

func (f *fakeCountryRepo) GetByID(ctx context.Context, id int64) (*models.Country, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeCountryRepo) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeCountryRepo) GetByName(ctx context.Context, name string) (*models.Country, error) {
	c, ok := f.byName[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCountryRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Country, int, error) {
	return nil, 0, nil
}

func providerTeams() []footballdata.TeamEntry {
	return []footballdata.TeamEntry{
		{
			Team:  footballdata.ProviderTeam{ID: 33, Name: "Manchester United", Code: "MUN", Country: "England", Founded: 1878},
			Venue: footballdata.ProviderVenue{Name: "Old Trafford", City: "Manchester", Capacity: 76212},
		},
		{
			Team:  footballdata.ProviderTeam{ID: 40, Name: "Liverpool", Code: "LIV", Country: "England", Founded: 1892},
			Venue: footballdata.ProviderVenue{Name: "Anfield", City: "Liverpool", Capacity: 61276},
		},
	}
}

func newTestImportService(provider Provider, teams *fakeTeamRepo, countries *fakeCountryRepo) *ImportService {
	return NewImportService(provider, teams, nil, countries,
		nil, log.New(&bytes.Buffer{}, "", 0))
}

func TestImportTeams(t *testing.T) {
	teams := newFakeTeamRepo()
	countries := &fakeCountryRepo{byName: map[string]*models.Country{
		"England": {ID: 7, Name: "England", Code: "GB"},
	}}
	svc := newTestImportService(&fakeProvider{teams: providerTeams()}, teams, countries)

	result, err := svc.ImportTeams(context.Background(), 39, 2023)
	if err != nil {
		t.Fatalf("ImportTeams: %v", err)
	}
	if result.TeamsImported != 2 {
		t.Errorf("TeamsImported = %d, want 2", result.TeamsImported)
	}
	if result.MappingsCreated != 2 {
		t.Errorf("MappingsCreated = %d, want 2", result.MappingsCreated)
	}

	stored, err := teams.GetByExternalID(context.Background(), 33)
	if err != nil {
		t.Fatalf("GetByExternalID: %v", err)
	}
	if stored.VenueName != "Old Trafford" {
		t.Errorf("venue = %q, want Old Trafford", stored.VenueName)
	}
	if !stored.CountryID.Valid || stored.CountryID.Int64 != 7 {
		t.Errorf("country_id = %+v, want 7", stored.CountryID)
	}
}

func TestImportTeamsIsIdempotent(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := newTestImportService(&fakeProvider{teams: providerTeams()}, teams, &fakeCountryRepo{})

	ctx := context.Background()
	if _, err := svc.ImportTeams(ctx, 39, 2023); err != nil {
		t.Fatalf("first import: %v", err)
	}

	result, err := svc.ImportTeams(ctx, 39, 2023)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.TeamsImported != 2 {
		t.Errorf("TeamsImported = %d, want 2 (teams refreshed)", result.TeamsImported)
	}
	if result.MappingsCreated != 0 {
		t.Errorf("MappingsCreated = %d, want 0 on re-run", result.MappingsCreated)
	}
	if len(teams.byExternal) != 2 {
		t.Errorf("stored teams = %d, want 2", len(teams.byExternal))
	}
}

func TestImportTeamsUnknownCountryLeftNull(t *testing.T) {
	teams := newFakeTeamRepo()
	svc := newTestImportService(&fakeProvider{teams: providerTeams()}, teams, &fakeCountryRepo{})

	if _, err := svc.ImportTeams(context.Background(), 39, 2023); err != nil {
		t.Fatalf("ImportTeams: %v", err)
	}

	stored, _ := teams.GetByExternalID(context.Background(), 33)
	if stored.CountryID.Valid {
		t.Errorf("country_id = %+v, want null for unknown country", stored.CountryID)
	}
}

func TestImportTeamsProviderFailure(t *testing.T) {
	svc := newTestImportService(&fakeProvider{err: errors.New("upstream down")},
		newFakeTeamRepo(), &fakeCountryRepo{})

	if _, err := svc.ImportTeams(context.Background(), 39, 2023); err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestImportCountriesSkipsMissingCodes(t *testing.T) {
	countries := &fakeCountryRepo{}
	svc := newTestImportService(&fakeProvider{countries: []footballdata.ProviderCountry{
		{Name: "England", Code: "GB"},
		{Name: "World", Code: ""}, // provider pseudo-entry
		{Name: "Spain", Code: "ES"},
	}}, newFakeTeamRepo(), countries)

	count, err := svc.ImportCountries(context.Background())
	if err != nil {
		t.Fatalf("ImportCountries: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if _, err := countries.GetByName(context.Background(), "World"); err == nil {
		t.Error("pseudo-entry without a code should be skipped")
	}
}
