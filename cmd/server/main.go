package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/afroash/weather-monitor/internal/config"
	"github.com/afroash/weather-monitor/internal/logging"
	"github.com/afroash/weather-monitor/internal/server"
	"github.com/afroash/weather-monitor/internal/storage"
)

const version = "v1.0.0"

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging, os.Stdout)
	logger.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	logger.Info().
		Str("version", version).
		Str("addr", cfg.Addr()).
		Msg("Starting Weather Monitoring System")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.AppConfig, logger zerolog.Logger) error {
	// Ensure data directory exists
	if dataDir := filepath.Dir(cfg.Database.Path); dataDir != "." {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		logger.Info().Msg("SQLiteStore closed")
	}()

	if count, err := store.CountReadings(); err == nil {
		logger.Info().Int64("readings", count).Str("path", cfg.Database.Path).Msg("Database ready")
	}

	absPath, err := filepath.Abs(cfg.Database.Path)
	if err != nil {
		absPath = cfg.Database.Path
	}
	pages, err := server.NewPageHandler(absPath, logger)
	if err != nil {
		return err
	}
	apiHandler := server.NewAPIHandler(store, version, logger)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.NewRouter(apiHandler, pages, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	case err := <-errChan:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
	}

	logger.Info().Msg("Server stopped")
	return nil
}
