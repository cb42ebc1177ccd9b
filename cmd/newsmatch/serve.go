package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search API over HTTP",
	Long: `Load the snapshot and serve the search API over HTTP.

Endpoints:
  GET  /health
  GET  /metrics
  POST /api/v1/search
  GET  /api/v1/stats
  GET  /api/v1/clients/:name/news
  GET  /api/v1/clients/:name/context?topic=...

The index is read-only while serving; rebuild with 'newsmatch build'
and restart to pick up new data.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, closer, err := loadedEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer closer()

	srv, err := server.NewServer(engine, logger.Named("http"), &server.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}
