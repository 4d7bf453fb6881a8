// Package daemon wires the engine, run history store, and HTTP API into
// a running service with graceful shutdown. Both the hitboxd binary and
// `hitbox serve` boot through Run.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/api"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/config"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitboxdb"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/mesh"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/version"
)

// Run boots the service and blocks until ctx is cancelled. modelPath may
// be empty; a model can only be decomposed once one is loaded.
func Run(ctx context.Context, cfg *config.Config, modelPath string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	log.Info("starting hitboxd",
		zap.String("version", version.String()),
		zap.String("listen", cfg.Server.Listen),
		zap.String("database", cfg.Database.Path))

	db, err := hitboxdb.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open run database: %w", err)
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		return fmt.Errorf("migrate run database: %w", err)
	}
	store := hitboxdb.NewRunStore(db)

	defaultTier, err := hitbox.ParseTier(cfg.Engine.DefaultTier)
	if err != nil {
		return err
	}

	engine := hitbox.NewEngine(hitbox.Options{
		Seed:      &cfg.Engine.Seed,
		PaceDelay: cfg.Engine.PaceDelay,
		Log:       log,
		Recorder:  hitboxdb.NewRecorder(store, log),
	})

	srv := api.NewServer(engine, store, defaultTier, log)
	if modelPath != "" {
		m, err := mesh.LoadOBJ(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		srv.SetModel(m)
		log.Info("model loaded",
			zap.String("path", modelPath),
			zap.Int("vertices", len(m.Vertices)),
			zap.Int("faces", len(m.Faces)))
	}

	server := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: api.LoggingMiddleware(log, srv.ServeMux()),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	}

	// Let an in-flight job notice cancellation before the process exits.
	if job := engine.CurrentJob(); job != nil {
		job.Cancel()
		select {
		case <-job.Done():
		case <-time.After(5 * time.Second):
			log.Warn("job did not stop before shutdown deadline", zap.String("run_id", job.ID))
		}
	}

	log.Info("graceful shutdown complete")
	return nil
}
