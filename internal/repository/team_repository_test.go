package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/models"
)

func TestTeamUpsertUsesConflictClause(t *testing.T) {
	database.SetDriver("mysql")
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := &models.Team{
		ExternalID: 33,
		Name:       "Manchester United",
		Code:       "MUN",
		National:   false,
	}

	// Running the same import twice must not duplicate the row.
	mock.ExpectExec("INSERT INTO teams .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teams .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Upsert(ctx, team); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, team); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLinkLeagueSeasonReportsCreation(t *testing.T) {
	database.SetDriver("mysql")
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTeamRepository(db)
	ctx := context.Background()
	mapping := &models.TeamLeagueSeason{TeamID: 1, LeagueID: 39, Season: 2023}

	mock.ExpectExec("INSERT IGNORE INTO team_league_seasons").
		WithArgs(int64(1), int64(39), 2023).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT IGNORE INTO team_league_seasons").
		WithArgs(int64(1), int64(39), 2023).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.LinkLeagueSeason(ctx, mapping)
	if err != nil {
		t.Fatalf("first link: %v", err)
	}
	if !created {
		t.Error("first link should report a new mapping")
	}

	created, err = repo.LinkLeagueSeason(ctx, mapping)
	if err != nil {
		t.Fatalf("second link: %v", err)
	}
	if created {
		t.Error("second link should report an existing mapping")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestTeamGetByExternalIDNotFound(t *testing.T) {
	database.SetDriver("mysql")
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewTeamRepository(db)

	mock.ExpectQuery("SELECT .* FROM teams WHERE external_id").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByExternalID(context.Background(), 999)
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
