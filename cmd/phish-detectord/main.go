package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/di"
	"github.com/mikey/phish-detector/internal/ports"
)

const shutdownTimeout = 10 * time.Second

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
func run(frontend ports.Frontend, res di.Resources) error {
	logger := res.Logger
	defer logger.Sync()

	if res.Watcher != nil {
		if err := res.Watcher.Start(); err != nil {
			res.Close(shutdownTimeout)
			return err
		}
	}

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		res.Close(shutdownTimeout)
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("Shutting down...", zap.String("signal", sig.String()))

	if err := frontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	res.Close(shutdownTimeout)

	logger.Info("Shutdown complete")
	return nil
}
