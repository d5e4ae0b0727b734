package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"galaxy-maker-server/internal/auth"
	"galaxy-maker-server/internal/capture"
	"galaxy-maker-server/internal/catalog"
	"galaxy-maker-server/internal/export"
	"galaxy-maker-server/internal/middleware"
	"galaxy-maker-server/internal/sector"
	"galaxy-maker-server/internal/server"
	"galaxy-maker-server/internal/session"
	"galaxy-maker-server/internal/shared/config"
	"galaxy-maker-server/internal/shared/database"
	"galaxy-maker-server/internal/shared/logger"
	"galaxy-maker-server/internal/shared/redis"
	"galaxy-maker-server/internal/skeleton"
	"galaxy-maker-server/internal/transition"
	"galaxy-maker-server/internal/view"
	"galaxy-maker-server/migrations"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init()

	if err := run(); err != nil {
		slog.Error("Server stopped with error", "component", "main", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.GlobalConfig
	log := slog.With("component", "main")
	base := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	var repo export.Repository = export.NewMemoryRepository()
	if cfg.Database.Enabled {
		var err error
		db, err = database.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		var schema fs.FS = migrations.Files
		if cfg.Database.MigrationsPath != "" {
			schema = os.DirFS(cfg.Database.MigrationsPath)
		}
		if err := db.RunMigrations(ctx, schema); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		repo = export.NewPostgresRepository(db.DB, base)
	} else {
		log.Info("Database disabled, exports kept in memory")
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	var cache export.Cache = export.NoopCache{}
	if redisClient != nil {
		defer redisClient.Close()
		cache = export.NewRedisCache(redisClient.Client, cfg.Redis.ExportTTL)
	}

	tokens, err := auth.NewTokenService(cfg.Auth.SessionSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	var hook capture.Hook = capture.Noop{}
	if cfg.Galaxy.CapturesEnabled {
		hook = capture.NewPNGRenderer(base)
	}

	sessionService := session.NewService(
		session.Config{
			Viewport:      view.Viewport{Width: cfg.Galaxy.ViewportWidth, Height: cfg.Galaxy.ViewportHeight},
			Seed:          cfg.Galaxy.Seed,
			MaxSessions:   cfg.Galaxy.MaxSessions,
			TTL:           cfg.Galaxy.SessionTTL,
			MaxViewPoints: cfg.Galaxy.MaxViewPoints,
		},
		skeleton.NewGenerator(base),
		transition.NewEngine(base),
		sector.NewDiscretizer(base),
		catalog.NewSynthesizer(base),
		hook,
		base,
	)
	sessionService.Start(ctx)

	exportService := export.NewService(repo, cache, cfg.Server.URL, base)

	mux := server.NewRoutes(db, redisClient, sessionService, exportService, tokens, base).Setup()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()
	corsMiddleware := middleware.NewCORS()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsMiddleware.Middleware(rateLimiter.Middleware(mux)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Galaxy maker server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"viewport_width", cfg.Galaxy.ViewportWidth,
			"viewport_height", cfg.Galaxy.ViewportHeight,
			"seeded", cfg.Galaxy.Seed != 0,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
