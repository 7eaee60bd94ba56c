package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/di"
	"github.com/mikey/securelens/internal/factory"
	"github.com/mikey/securelens/internal/httpserver"
	"github.com/mikey/securelens/internal/ports"
)

const shutdownTimeout = 15 * time.Second

// dependencies groups everything run needs from the container
type dependencies struct {
	dig.In

	Logger   *zap.Logger
	Server   *httpserver.Server
	Intake   ports.MailIntake
	LLM      *factory.LLMFactory
	Settings core.SettingsRepository
	Player   *audio.Player
}

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(deps dependencies) error {
	logger := deps.Logger
	defer logger.Sync()

	if err := deps.Server.Start(); err != nil {
		logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}

	if deps.Intake != nil {
		if err := deps.Intake.Start(); err != nil {
			logger.Error("Failed to start mail intake", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := deps.Server.Shutdown(ctx); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if deps.Intake != nil {
		if err := deps.Intake.Stop(); err != nil {
			logger.Error("Failed to stop mail intake", zap.Error(err))
		}
	}

	if deps.Player != nil {
		deps.Player.Stop()
	}

	// Close any resources that need closing
	if backend, err := deps.LLM.CreateBackend(); err == nil {
		if closer, ok := backend.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM backend", zap.Error(err))
			}
		}
	}
	if err := deps.Settings.Close(); err != nil {
		logger.Error("Failed to close settings store", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
