// Command importer loads a CSV export back into a weather database.
// Ids from the file are discarded and reassigned by the store.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/afroash/weather-monitor/internal/config"
	"github.com/afroash/weather-monitor/internal/logging"
	"github.com/afroash/weather-monitor/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "path to config file")
	csvPath := flag.String("file", "", "CSV export to import")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -file weather_data_YYYYMMDD_HHMMSS.csv [-config configs/server.yaml]")
		os.Exit(2)
	}

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging, os.Stdout)
	logger.Debug().Str("config", cfg.String()).Msg("Configuration loaded")

	if err := importFile(*csvPath, cfg.Database.Path, logger); err != nil {
		logger.Error().Err(err).Str("file", *csvPath).Msg("Import failed, nothing was written")
		os.Exit(1)
	}
}

func importFile(csvPath, dbPath string, logger zerolog.Logger) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	readings, err := storage.ParseCSV(f)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InsertBatch(readings); err != nil {
		return err
	}

	total, err := store.CountReadings()
	if err != nil {
		return err
	}
	logger.Info().
		Int("imported", len(readings)).
		Int64("total", total).
		Str("file", csvPath).
		Msg("Import completed")
	return nil
}
