package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/redact"
)

// openDatabase opens the pgx-backed pool and sizes it from cfg. A failed
// initial ping is fatal only when required; otherwise the server starts and
// reports the outage through /health.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger, required bool) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.AcquireTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		d := postgres.Diagnose(err)
		logger.Error("database connection check failed",
			redact.Attr(err),
			slog.String("diagnosis", string(d)),
			slog.String("hint", d.Hint()))
		if required {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return db, nil
	}

	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))
	return db, nil
}
