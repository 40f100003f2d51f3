package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/maxviazov/basketball-stat-tracker/internal/config"
	"github.com/maxviazov/basketball-stat-tracker/internal/handler"
	"github.com/maxviazov/basketball-stat-tracker/internal/logger"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository/postgres"
	"github.com/maxviazov/basketball-stat-tracker/internal/repository/sqlite"
	"github.com/maxviazov/basketball-stat-tracker/internal/schema"
	"github.com/maxviazov/basketball-stat-tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// bootstrap loads config, builds the logger and opens the store, with the schema applied.
func bootstrap(ctx context.Context, configPath string) (*config.Config, zerolog.Logger, *repository.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("config loading failed: %w", err)
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = cfg.App.Name
	}
	if cfg.Logger.ServiceVersion == "" {
		cfg.Logger.ServiceVersion = cfg.App.Version
	}
	if cfg.Logger.Env == "" {
		switch cfg.App.Env {
		case "dev", "staging", "prod":
			cfg.Logger.Env = cfg.App.Env
		}
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("logger initialization failed: %w", err)
	}

	store, err := openStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("storage unavailable")
		return nil, appLogger, nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Storage.MigrateTimeout)*time.Second)
	defer cancel()
	if err := schema.Apply(migrateCtx, store.Schema, appLogger); err != nil {
		store.Close()
		appLogger.Error().Err(err).Msg("schema migration failed")
		return nil, appLogger, nil, err
	}
	return cfg, appLogger, store, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path, logger)
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func runMigrate(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	_, log, store, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("driver", store.Driver).Msg("migration finished")
	return nil
}

// newHandler wires services onto store and wraps the gin engine with CORS.
func newHandler(cfg *config.Config, store *repository.Store, log zerolog.Logger) http.Handler {
	svc := handler.Services{
		Teams:   service.NewTeamService(store.Teams, log),
		Players: service.NewPlayerService(store.Players, store.Teams, store.Tx, log),
		Stats:   service.NewStatsService(store.Stats, store.Players, store.Tx, log),
		Query:   service.NewQueryService(store.Teams, store.Players, store.Stats, log),
	}
	engine := handler.NewEngine(cfg.HTTP, log)
	handler.Register(engine, store.Pinger, svc, log)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler(engine)
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, store, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      newHandler(cfg, store, log),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("driver", store.Driver).Msg("service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
