package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/kickoffhub/kickoffhub/internal/cache"
	"github.com/kickoffhub/kickoffhub/internal/config"
	"github.com/kickoffhub/kickoffhub/internal/database"
	"github.com/kickoffhub/kickoffhub/internal/footballdata"
	"github.com/kickoffhub/kickoffhub/internal/queue"
	"github.com/kickoffhub/kickoffhub/internal/repository"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background import worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger()

			imports, redisCache, err := buildImportService(cfg, logger)
			if err != nil {
				return err
			}
			// The worker exists to consume the queue; without Redis there is
			// nothing to consume.
			if !redisCache.Enabled() {
				return errors.New("worker requires redis: set redis.addr")
			}

			broker := queue.NewRedisBroker(redisCache.Client(), cfg.Queue.Name)
			defer broker.Close()

			w := queue.NewWorker(broker, logger, cfg.Queue.MaxAttempts, cfg.Queue.ReserveWait)
			w.Register(queue.JobTeamsImport, func(ctx context.Context, payload json.RawMessage) (string, error) {
				var p queue.TeamsImportPayload
				if err := json.Unmarshal(payload, &p); err != nil {
					return "", fmt.Errorf("decode payload: %w", err)
				}
				result, err := imports.ImportTeams(ctx, p.LeagueID, p.Season)
				if err != nil {
					return "", err
				}
				return result.String(), nil
			})

			ctx, stop := signalContext()
			defer stop()
			return w.Run(ctx)
		},
	}
}

// buildImportService assembles the import pipeline shared by the worker
// and the one-shot import command.
func buildImportService(cfg *config.Config, logger *log.Logger) (*service.ImportService, *cache.RedisCache, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	redisCache, err := cache.New(cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	imports := service.NewImportService(
		footballdata.NewClient(cfg.Football),
		repository.NewTeamRepository(db.DB),
		repository.NewLeagueRepository(db.DB),
		repository.NewCountryRepository(db.DB),
		redisCache,
		logger,
	)
	return imports, redisCache, nil
}
