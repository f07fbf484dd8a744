// Package main is the entry point for the tasknest API server: a
// multi-tenant task tracker with JWT sessions, Postgres as the source of
// truth and Redis as a cache-aside read layer.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	ctx := context.Background()

	db, err := setupDatabase(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to set up database", slog.Any("error", err))
		log.Fatalf("failed to set up database: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(db, *migrateCmd, appLogger); err != nil {
			appLogger.Error("migration failed", slog.Any("error", err))
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	if err := runMigrations(db, "up", appLogger); err != nil {
		appLogger.Error("migration failed", slog.Any("error", err))
		log.Fatalf("migration failed: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("failed to initialize application", slog.Any("error", err))
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("server exited with error", slog.Any("error", err))
		log.Fatalf("server error: %v", err)
	}
}
