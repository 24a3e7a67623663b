package main

import (
	"github.com/spf13/cobra"

	"github.com/kickoffhub/kickoffhub/internal/config"
)

func newImportCmd() *cobra.Command {
	var leagueID int64
	var season int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Run a one-shot synchronous teams import",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger()

			imports, _, err := buildImportService(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			result, err := imports.ImportTeams(ctx, leagueID, season)
			if err != nil {
				return err
			}
			cmd.Printf("imported %d teams, %d new mappings for league %d season %d\n",
				result.TeamsImported, result.MappingsCreated, leagueID, season)
			return nil
		},
	}

	cmd.Flags().Int64Var(&leagueID, "league", 0, "provider league id")
	cmd.Flags().IntVar(&season, "season", 0, "season start year, e.g. 2023")
	cmd.MarkFlagRequired("league")
	cmd.MarkFlagRequired("season")
	return cmd
}
