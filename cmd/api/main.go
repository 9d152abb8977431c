// Package main is the entry point for the Panchangam API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subhashmahimaluri/panchangam/internal/api"
	"github.com/subhashmahimaluri/panchangam/internal/astro"
	"github.com/subhashmahimaluri/panchangam/internal/cache"
	"github.com/subhashmahimaluri/panchangam/internal/config"
	"github.com/subhashmahimaluri/panchangam/internal/logger"
	"github.com/subhashmahimaluri/panchangam/internal/panchang"
	"github.com/subhashmahimaluri/panchangam/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	log.Info("starting panchangam API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Open the location catalog and bring the schema up to date
	st, err := store.Open(store.DefaultConfig(cfg.DBDriver, cfg.DSN()), log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if _, err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// The day cache is optional; a dead Redis only costs recomputation
	ca := cache.New(cfg.RedisAddr, cfg.RedisPassword, log)
	defer ca.Close()
	if ca.Enabled() {
		if err := ca.Ping(ctx); err != nil {
			log.Warn("redis unreachable, serving without cache", slog.Any("error", err))
		}
	}

	engine := panchang.NewEngine(astro.NewMeeus(), log)
	handlers := api.NewHandlers(st, ca, engine, cfg, log)
	router := api.SetupRoutes(handlers, cfg, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
