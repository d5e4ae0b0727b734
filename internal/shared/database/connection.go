package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"galaxy-maker-server/internal/shared/config"

	_ "github.com/lib/pq"
)

// DB is the Postgres pool behind the export archive.
type DB struct {
	*sql.DB
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect",
		"host", cfg.Host, "database", cfg.Name)

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("Failed to close pool after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connected",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)
	return &DB{sqlDB}, nil
}
