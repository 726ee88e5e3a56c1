// Command web serves the dashboard API over the processed historical
// dataset.
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
	transport "github.com/Dan-413/cap-rate-project/internal/transport/http"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
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

	data := services.NewDataService(cfg, logger)
	if err := data.Reload(); err != nil {
		// The server starts with an empty dataset rather than refusing to
		// run; the processor may simply not have produced output yet.
		logger.Warn("dataset unavailable at startup", slog.String("error", err.Error()))
	}
	health := services.NewHealthService(version, data)

	server := transport.NewServer(cfg, data, health, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
