// Package main is the entry point for the vending machine.
//
// The machine runs either as an interactive console on stdin/stdout or as an
// HTTP API, selected with VENDING_MODE. Both front ends drive the same
// transaction engine, and completed sales are recorded in the sales ledger.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/vending/internal/config"
	"github.com/aristath/vending/internal/console"
	"github.com/aristath/vending/internal/di"
	"github.com/aristath/vending/internal/server"
	"github.com/aristath/vending/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("mode", cfg.Mode).Msg("Starting vending machine")

	container, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	if err := di.StartJobs(container, cfg); err != nil {
		log.Warn().Err(err).Msg("Background jobs started with errors")
	}
	defer container.Scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case config.ModeHTTP:
		runHTTP(ctx, cfg, container, log)
	default:
		runConsole(ctx, container, log)
	}

	log.Info().Msg("Vending machine stopped")
}

// runHTTP serves the API until a shutdown signal arrives
func runHTTP(ctx context.Context, cfg *config.Config, container *di.Container, log zerolog.Logger) {
	srv := server.New(server.Config{
		Log:      log,
		Machine:  container.Machine,
		Sales:    container.Sales,
		LedgerDB: container.LedgerDB,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error().Err(err).Msg("Failed to start server")
		return
	}

	log.Info().Msg("Shutting down server...")

	// Give in-flight requests up to 10 seconds to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// runConsole reads commands from stdin until exit, end of input or a
// shutdown signal
func runConsole(ctx context.Context, container *di.Container, log zerolog.Logger) {
	c := console.New(container.Machine, os.Stdin, os.Stdout, log)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Console stopped with error")
	}
}
