package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/stumbleable/jobs/config"
	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/email"
	httpx "github.com/stumbleable/jobs/internal/http"
	"github.com/stumbleable/jobs/internal/observability/statsd"
	"github.com/stumbleable/jobs/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Registry    *service.RegistryService
	Executor    *service.ExecutorService
	Queue       *service.EmailQueueService
	Preferences *service.PreferenceService
	Trust       *service.TrustService
	Builtin     *service.BuiltinJobs
	Verifier    httpx.TokenVerifier
	Ledger      *data.JobExecutionRepo
	Metrics     *statsd.Client
}

// ServiceDeps contains the shared dependencies for building services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Ledger      *data.JobExecutionRepo
	Schedules   *data.JobScheduleRepo
	Queue       *data.EmailQueueRepo
	Logs        *data.EmailLogRepo
	Preferences *data.EmailPreferencesRepo
	Users       *data.UserRepo
	Trust       *data.TrustRepo
	Discoveries *data.DiscoveryRepo
	TrustCache  *data.RedisTrustCache
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) *serviceRepositories {
	trustTTL := data.DefaultTrustCacheTTL
	if deps.Config != nil && deps.Config.Redis.TrustTTL > 0 {
		trustTTL = deps.Config.Redis.TrustTTL
	}
	return &serviceRepositories{
		Ledger:      data.NewJobExecutionRepo(deps.DB),
		Schedules:   data.NewJobScheduleRepo(deps.DB),
		Queue:       data.NewEmailQueueRepo(deps.DB),
		Logs:        data.NewEmailLogRepo(deps.DB),
		Preferences: data.NewEmailPreferencesRepo(deps.DB),
		Users:       data.NewUserRepo(deps.DB),
		Trust:       data.NewTrustRepo(deps.DB),
		Discoveries: data.NewDiscoveryRepo(deps.DB),
		TrustCache:  data.NewRedisTrustCache(deps.RedisClient, trustTTL),
	}
}

// buildMetrics configures the statsd sink when metrics are enabled.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityConfig) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.StatsdPrefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// buildSender selects the delivery provider. Without SMTP configuration the
// simulated sender keeps the queue draining in dev and test environments.
func buildSender(cfg config.EmailConfig, logger *slog.Logger) core.EmailSender {
	smtp := email.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUsername,
		Password:    cfg.SMTPPassword,
		From:        cfg.FromAddress,
		RetryWindow: cfg.SendRetryWindow,
	}
	if smtp.Configured() {
		return email.NewSMTPSender(smtp, logger)
	}
	logger.Warn("SMTP not configured; emails will be simulated")
	return email.NewSimulatedSender(logger)
}

// NewServices wires repositories, domain services, and built-in jobs.
// The registry is initialized (schedules persisted and merged with stored
// overrides) but not started; RunServicesWithShutdown starts it when the
// scheduler service mode is enabled.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	repos := buildRepositories(deps)
	metrics := buildMetrics(logger, cfg.Observability)

	executor := service.NewExecutorService(service.ExecutorServiceOptions{
		Ledger:    repos.Ledger,
		Schedules: repos.Schedules,
		Timeout:   cfg.Scheduler.ExecutionTimeout,
		Metrics:   metrics,
		Logger:    logger,
	})

	registry := service.NewRegistryService(service.RegistryServiceOptions{
		Executor:  executor,
		Schedules: repos.Schedules,
		Logger:    logger,
	})

	renderer, err := email.NewRenderer(email.RendererOptions{
		FrontendBaseURL: cfg.Email.FrontendBaseURL,
		UnsubscribeURL:  cfg.Email.UnsubscribeURL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build email renderer: %w", err)
	}

	queue := service.NewEmailQueueService(service.EmailQueueServiceOptions{
		Queue:        repos.Queue,
		Logs:         repos.Logs,
		Preferences:  repos.Preferences,
		Users:        repos.Users,
		Renderer:     renderer,
		Sender:       buildSender(cfg.Email, logger),
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
		Metrics:      metrics,
		Logger:       logger,
	})

	preferences := service.NewPreferenceService(service.PreferenceServiceOptions{
		Preferences: repos.Preferences,
		Users:       repos.Users,
		Logger:      logger,
	})

	trust := service.NewTrustService(service.TrustServiceOptions{
		Repo:   repos.Trust,
		Cache:  repos.TrustCache,
		Logger: logger,
	})

	builtin := service.NewBuiltinJobs(service.BuiltinJobsOptions{
		Queue:       queue,
		Trust:       trust,
		Users:       repos.Users,
		Discoveries: repos.Discoveries,
		Schedules:   repos.Schedules,
		Metrics:     metrics,
		Logger:      logger,
	})

	if !cfg.Scheduler.DisableBuiltinJobs {
		for _, def := range builtin.Definitions() {
			if err := registry.RegisterJob(def); err != nil {
				return ServiceContainer{}, fmt.Errorf("register job %s: %w", def.Name, err)
			}
		}
	}
	if err := registry.Initialize(ctx); err != nil {
		return ServiceContainer{}, fmt.Errorf("initialize job registry: %w", err)
	}

	verifier, err := BuildTokenVerifier(ctx, AuthDeps{
		Auth:   cfg.Auth,
		IsDev:  cfg.IsDev,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Registry:    registry,
		Executor:    executor,
		Queue:       queue,
		Preferences: preferences,
		Trust:       trust,
		Builtin:     builtin,
		Verifier:    verifier,
		Ledger:      repos.Ledger,
		Metrics:     metrics,
	}, nil
}
