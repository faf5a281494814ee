package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stumbleable/jobs/config"
)

// schedulerStopTimeout bounds the wait for in-flight cron jobs on shutdown.
const schedulerStopTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their
// lifecycle. It blocks until a shutdown signal is received or a service
// fails, then stops the remaining services gracefully.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Config.IsHTTPServerEnabled() {
		g.Go(func() error {
			return RunHTTPServer(gctx, &HTTPServerDeps{
				Config:   cfg.Config,
				Services: cfg.Services,
				DB:       cfg.DB,
				Logger:   logger,
			})
		})
		logger.InfoContext(ctx, "service enabled", "service", config.ServiceModeHTTP)
	}

	if cfg.Config.IsSchedulerEnabled() {
		g.Go(func() error {
			return runScheduler(gctx, cfg.Services, logger)
		})
		logger.InfoContext(ctx, "service enabled", "service", config.ServiceModeScheduler)
	}

	if cfg.Config.IsEmailWorkerEnabled() {
		g.Go(func() error {
			return runEmailWorker(gctx, cfg.Services, logger)
		})
		logger.InfoContext(ctx, "service enabled", "service", config.ServiceModeEmailWorker)
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service error", "error", err)
		return err
	}

	if cfg.Services.Metrics != nil {
		if cerr := cfg.Services.Metrics.Close(); cerr != nil {
			logger.Warn("close statsd client failed", "error", cerr)
		}
	}

	logger.Info("services stopped")
	return nil
}

// runScheduler starts the cron runner and blocks until shutdown.
func runScheduler(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	services.Registry.Start()
	logger.InfoContext(ctx, "scheduler started")

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), schedulerStopTimeout)
	defer cancel()

	if err := services.Registry.Stop(stopCtx); err != nil {
		return err
	}
	logger.Info("scheduler stopped")
	return ctx.Err()
}

// runEmailWorker runs the delivery poll loop until shutdown.
func runEmailWorker(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	logger.InfoContext(ctx, "email worker started")
	err := services.Queue.Run(ctx)
	logger.Info("email worker stopped")
	return err
}
