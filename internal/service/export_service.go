package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kickoffhub/kickoffhub/internal/models"
	"github.com/kickoffhub/kickoffhub/internal/repository"
)

// ExportService produces spreadsheet exports of reference data.
type ExportService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
}

// NewExportService creates a new export service.
func NewExportService(players repository.PlayerRepository, teams repository.TeamRepository) *ExportService {
	return &ExportService{players: players, teams: teams}
}

var playerExportHeader = []string{"Name", "Position", "Nationality", "Birth Date", "Team", "Injured"}

// ExportSquad writes a team's squad as an xlsx workbook to w.
func (s *ExportService) ExportSquad(ctx context.Context, teamID int64, w io.Writer) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	players, err := s.players.ListByTeam(ctx, teamID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Squad"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &playerExportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for i, p := range players {
		cell := fmt.Sprintf("A%d", i+2)
		row := playerExportRow(&p, team.Name)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write export row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportPlayers writes every player registered for a league season as an
// xlsx workbook to w, one row per player across all squads.
func (s *ExportService) ExportPlayers(ctx context.Context, leagueID int64, season int, w io.Writer) error {
	teams, err := s.teams.ListByLeagueSeason(ctx, leagueID, season)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Players"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &playerExportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	line := 2
	for _, team := range teams {
		players, err := s.players.ListByTeam(ctx, team.ID)
		if err != nil {
			return err
		}
		for _, p := range players {
			row := playerExportRow(&p, team.Name)
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", line), &row); err != nil {
				return fmt.Errorf("write export row %d: %w", line, err)
			}
			line++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func playerExportRow(p *models.Player, teamName string) []any {
	birth := ""
	if p.BirthDate.Valid {
		birth = p.BirthDate.Time.Format("2006-01-02")
	}
	injured := "no"
	if p.Injured {
		injured = "yes"
	}
	return []any{p.Name, p.Position, p.Nationality, birth, teamName, injured}
}
