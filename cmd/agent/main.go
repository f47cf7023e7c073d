// Command agent runs one real-time voice session against the hosted model.
// Lines typed on stdin are sent as user text; transcripts are printed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/app"
	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/realtime"
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
	if settings.OpenAIAPIKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	components, err := app.New(ctx, settings, logger)
	if err != nil {
		logger.Fatal("failed to initialize components", zap.Error(err))
	}
	defer func() { _ = components.Close(context.Background()) }()

	components.Sweeper.Start()
	defer components.Sweeper.Stop()

	session := os.Getenv("SESSION_ID")
	if session == "" {
		session = uuid.NewString()
	}

	bridge := realtime.NewBridge(realtime.Config{
		URL:     settings.RealtimeURL,
		Model:   settings.RealtimeModel,
		APIKey:  settings.OpenAIAPIKey,
		Voice:   settings.RealtimeVoice,
		Session: session,
		Profile: settings.Profile,
	}, components.Dispatcher, logger)
	bridge.OnUserTranscript = func(text string) {
		fmt.Println("user:", text)
	}
	bridge.OnAssistantTranscript = func(text string) {
		fmt.Println("assistant:", text)
	}

	if err := bridge.Connect(ctx); err != nil {
		logger.Fatal("failed to connect", zap.Error(err))
	}
	defer func() { _ = bridge.Close() }()

	if err := bridge.Start(); err != nil {
		logger.Fatal("failed to start session", zap.Error(err))
	}

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if err := bridge.SendText(text); err != nil {
				logger.Warn("failed to send text", zap.Error(err))
				return
			}
		}
	}()

	logger.Info("agent session started", zap.String("session", session), zap.String("profile", settings.Profile.Name))
	if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("session ended", zap.Error(err))
		return
	}
	logger.Info("agent session stopped")
}
