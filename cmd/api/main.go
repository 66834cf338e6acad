package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ledgerlens/statement-backend/internal/api"
	"github.com/ledgerlens/statement-backend/internal/application/analysis"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/config"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/logging"
	"github.com/ledgerlens/statement-backend/internal/infrastructure/storage"
)

func main() {
	cfg := config.LoadOrEnv()
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	engineDefaults := cfg.Engine.MatcherConfig()
	service := analysis.NewService(engineDefaults, store, logger)

	serverCfg := api.DefaultConfig()
	if cfg.Server.Port != 0 {
		serverCfg.Port = cfg.Server.Port
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	serverCfg.EngineDefaults = engineDefaults

	server := api.NewServer(serverCfg, store, service, logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
