// hitboxd runs the decomposition service: it loads a model, exposes the
// job API over HTTP, and records run history in SQLite.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/config"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/daemon"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/logger"
)

var (
	configPath = flag.String("config", "", "path to YAML config file")
	listen     = flag.String("listen", "", "listen address (overrides config)")
	dbPath     = flag.String("db", "", "run history database path (overrides config)")
	modelPath  = flag.String("model", "", "OBJ model to load at startup")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := daemon.Run(ctx, cfg, *modelPath, log); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
