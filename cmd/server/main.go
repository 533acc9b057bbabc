// Package main implements the entry point for the Task Management API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/redact"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the database schema and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrate); err != nil {
		log.Printf("task-api: %s", redact.Error(err))
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and either applies migrations or
// serves HTTP until ctx is cancelled.
func run(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lg, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	lg.Info("server configuration loaded",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.Server.Environment),
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		slog.String("rate_limit_backend", cfg.RateLimit.Backend))
	for _, w := range cfg.SecurityWarnings() {
		lg.Warn("security warning", slog.String("warning", w))
	}

	db, err := openDatabase(ctx, cfg.Database, lg, migrate)
	if err != nil {
		return err
	}

	if migrate {
		defer db.Close()
		return postgres.Migrate(ctx, db, lg)
	}

	app, err := newApplication(ctx, cfg, lg, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
