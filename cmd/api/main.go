package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/careops/careops/config"
	"github.com/careops/careops/internal/app"
	"github.com/careops/careops/pkg/logger"
)

// osExit and signalNotify are swapped out in tests
var (
	osExit       = os.Exit
	signalNotify = signal.Notify
)

var errForcedShutdown = errors.New("forced shutdown")

// shutdownPolicy bounds how long a stopping server may take
type shutdownPolicy struct {
	// Drain is how long in-flight requests get to finish
	Drain time.Duration
	// Deadline caps the whole shutdown, cleanup included
	Deadline time.Duration
	// Grace is how long a forced shutdown waits for cleanup to return
	Grace time.Duration
}

var defaultShutdownPolicy = shutdownPolicy{
	Drain:    25 * time.Second,
	Deadline: 30 * time.Second,
	Grace:    2 * time.Second,
}

// NewAppFunc builds the application; tests substitute a stub
type NewAppFunc func(cfg *config.Config, opts ...app.AppOption) app.AppInterface

// runServer initializes the app and serves until Start fails or a signal
// arrives. A second signal during shutdown abandons the graceful wait.
func runServer(cfg *config.Config, appLogger logger.Logger, newApp NewAppFunc) error {
	return runServerWithPolicy(cfg, appLogger, newApp, defaultShutdownPolicy)
}

func runServerWithPolicy(cfg *config.Config, appLogger logger.Logger, newApp NewAppFunc, policy shutdownPolicy) error {
	application := newApp(cfg, app.WithLogger(appLogger))

	if err := application.Initialize(); err != nil {
		appLogger.WithField("error", err).Error("Failed to initialize application")
		return err
	}

	signals := make(chan os.Signal, 1)
	signalNotify(signals, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server started successfully")
		serveErr <- application.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			appLogger.WithField("error", err).Error("Server error")
		}
		return err
	case sig := <-signals:
		appLogger.WithFields(map[string]interface{}{
			"signal":          sig.String(),
			"active_requests": application.GetActiveRequestCount(),
		}).Info("Shutdown signal received, draining requests")
		return shutdown(application, appLogger, policy)
	}
}

func shutdown(application app.AppInterface, appLogger logger.Logger, policy shutdownPolicy) error {
	application.SetShutdownTimeout(policy.Drain)

	ctx, cancel := context.WithTimeout(context.Background(), policy.Deadline)
	defer cancel()

	force := make(chan os.Signal, 1)
	signalNotify(force, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- application.Shutdown(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			appLogger.WithField("error", err).Error("Error during graceful shutdown")
			return err
		}
		appLogger.Info("Server shut down gracefully")
		return nil
	case sig := <-force:
		appLogger.WithField("signal", sig.String()).Warn("Second signal received, forcing shutdown")
		cancel()

		select {
		case <-done:
		case <-time.After(policy.Grace):
			appLogger.Warn("Cleanup did not finish in time, exiting")
		}
		return errForcedShutdown
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewLoggerWithLevel(cfg.LogLevel)
	if cfg.IsDevelopment() {
		appLogger = logger.NewDevelopmentLogger(cfg.LogLevel)
	}
	appLogger.WithFields(map[string]interface{}{
		"version":     cfg.Version,
		"environment": cfg.Environment,
	}).Info(fmt.Sprintf("Starting API server on %s:%d", cfg.Server.Host, cfg.Server.Port))

	if err := runServer(cfg, appLogger, app.NewApp); err != nil {
		osExit(1)
	}
}
