package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"village-server/internal/auth"
	"village-server/internal/catalog"
	"village-server/internal/game"
	"village-server/internal/middleware"
	"village-server/internal/server"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/config"
	"village-server/internal/shared/database"
	"village-server/internal/shared/lock"
	"village-server/internal/shared/logger"
	"village-server/internal/shared/redis"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg)
	log := slog.With("component", "main")

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var locker lock.Locker
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb.Client, cfg.Game.LockTimeout, cfg.Game.LockTTL, slog.Default())
	} else {
		locker = lock.NewMemoryLocker(cfg.Game.LockTimeout)
	}

	registry, err := loadCatalog(cfg.Game.CatalogPath)
	if err != nil {
		return err
	}

	clk := clock.System{}
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration, clk)
	if err != nil {
		return err
	}

	g := game.New(db, registry, locker, clk, slog.Default())
	mux := server.NewRoutes(db, rdb, g, tokens, slog.Default()).Setup()

	rateLimiter := middleware.NewRateLimiter(ctx, cfg.RateLimit)
	cors := middleware.NewCORS(cfg.Frontend)
	handler := cors.Middleware(rateLimiter.Middleware(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Village server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"database_driver", cfg.Database.Driver,
			"redis_locks", rdb != nil)
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
	return srv.Shutdown(shutdownCtx)
}

func loadCatalog(path string) (*catalog.Registry, error) {
	if path == "" {
		return catalog.Default()
	}
	slog.Info("Loading catalog override", "component", "main", "path", path)
	return catalog.Load(path)
}
