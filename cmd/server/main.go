package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/api"
	"github.com/Harshitk-cp/frontdesk/internal/app"
	"github.com/Harshitk-cp/frontdesk/internal/buildconfig"
	"github.com/Harshitk-cp/frontdesk/internal/config"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := app.NewLogger(config.LogLevel())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	settings, err := config.FromEnv()
	if err != nil {
		logger.Fatal("failed to read settings", zap.Error(err))
	}

	ctx := context.Background()

	components, err := app.New(ctx, settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", zap.Error(err))
	}

	deps := api.Deps{
		Dispatcher:     components.Dispatcher,
		Audit:          components.Audit,
		Health:         components.Health,
		Profile:        settings.Profile,
		Voice:          settings.RealtimeVoice,
		APIKey:         settings.AgentAPIKey,
		RateLimitRPS:   settings.RateLimitRPS,
		RateLimitBurst: settings.RateLimitBurst,
	}
	if components.Assistant != nil {
		deps.Assistant = components.Assistant
	}
	server := api.NewApp(deps, logger)

	// Start background services
	components.Sweeper.Start()
	server.Start()

	srv := &http.Server{
		Addr:              settings.ServerAddr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", settings.ServerAddr),
			zap.String("version", buildconfig.Version()),
			zap.String("profile", settings.Profile.Name),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Stop background services
	server.Stop()
	components.Sweeper.Stop()

	if err := components.Close(shutdownCtx); err != nil {
		logger.Error("failed to close audit store", zap.Error(err))
	}

	logger.Info("server stopped")
}
