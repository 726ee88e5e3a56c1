// Command processor runs one batch processing pass: it ingests every
// report extract from the reports directory, merges the admitted records
// into the historical dataset, and rewrites the dataset outputs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/internal/infrastructure"
	"github.com/Dan-413/cap-rate-project/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := services.NewProcessingService(cfg, logger)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("processing run failed", slog.String("error", err.Error()))
		return err
	}

	if len(result.Errors) > 0 {
		logger.Warn("processing run finished with issues", slog.Int("issues", len(result.Errors)))
	}

	fmt.Printf("Processed %d files: %d total records (%d new, %d duplicates, %d invalid)\n",
		result.Metadata.TotalFiles,
		result.TotalRecords,
		result.NewRecords,
		result.DuplicateRecords,
		result.InvalidRecords)
	return nil
}
