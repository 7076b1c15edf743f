package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tally-ledger/backend/pkg/config"
	"github.com/tally-ledger/backend/pkg/controllers"
	"github.com/tally-ledger/backend/pkg/database"
	"github.com/tally-ledger/backend/pkg/models"
	"github.com/tally-ledger/backend/pkg/router"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type ServeCmd struct{}

// Run serves the API until SIGINT or SIGTERM is received.
func (cmd *ServeCmd) Run(cfg *config.Config) error {
	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Closing the database failed")
		}
	}()

	// Migrate all models so that the schema is correct
	err = models.Migrate(db)
	if err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}

	r, err := router.Config(cfg)
	if err != nil {
		return err
	}
	router.AttachRoutes(controllers.New(db, cfg.LedgerRetries), r.Group("/"), cfg)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("database", cfg.DBPath).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
