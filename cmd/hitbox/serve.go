package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/config"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/daemon"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/logger"
)

func buildServeCommand() *cobra.Command {
	var (
		configPath string
		listen     string
		dbPath     string
		modelPath  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the decomposition HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}

			log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return daemon.Run(ctx, cfg, modelPath, log)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "run history database path (overrides config)")
	cmd.Flags().StringVar(&modelPath, "model", "", "OBJ model to load at startup")

	return cmd
}
