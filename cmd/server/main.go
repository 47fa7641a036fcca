// Command server runs the GenFolio web application: the profile form, the
// rendered portfolios and the JSON API behind them.
//
// Configuration comes from the environment (optionally a .env file); see
// internal/config for every variable and its default.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/genfolio/internal/config"
	"github.com/sakif/genfolio/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Opening stores may dial Postgres or Redis; don't hang forever on it.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srv, err := server.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
