package main

import (
	"github.com/spf13/cobra"

	"github.com/kickoffhub/kickoffhub/internal/config"
	"github.com/kickoffhub/kickoffhub/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, newLogger())
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()
			return srv.Run(ctx)
		},
	}
}
