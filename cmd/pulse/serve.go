package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kamilpajak/pulse/internal/api"
	"github.com/kamilpajak/pulse/internal/database"
	"github.com/kamilpajak/pulse/internal/projects"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("database-url", "", "PostgreSQL connection URL for run history")
	serveCmd.Flags().Int("concurrency", 4, "Maximum concurrent report downloads per project")
	serveCmd.Flags().Float64("rate-limit", 5, "Maximum GitLab requests per second")
}

func serve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	apiCfg := api.Config{Logger: &logger}

	var db *database.DB
	if cfg.DatabaseURL != "" {
		logger.Info().Msg("running database migrations")
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return err
		}
		var err error
		db, err = database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		apiCfg.Runs = db
	} else {
		logger.Warn().Msg("database_url not set, run history disabled")
	}

	var runs projects.RunRecorder
	if db != nil {
		runs = db
	}
	svc, err := newProjectService(runs)
	if err != nil {
		return err
	}
	apiCfg.Projects = svc

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewServer(apiCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
