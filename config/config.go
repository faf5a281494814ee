// Package config defines environment-driven configuration for the
// Stumbleable jobs service, loaded with github.com/caarlos0/env. Each
// concern lives in its own file:
//   - database.go: Postgres and Redis configuration
//   - email.go: SMTP provider and delivery worker configuration
//   - scheduler.go: cron scheduler and executor configuration
//   - auth.go: bearer-token verification configuration
//   - http.go: HTTP server configuration
//   - observability.go: metrics configuration
//   - services.go: service mode selection
package config

import (
	"errors"
	"fmt"
)

// AppConfig is the root configuration struct, composed from the per-concern
// configs. Load it once at startup, then call Sanitize and Validate.
type AppConfig struct {
	// IsDev controls development mode behavior. Set DEV=true.
	IsDev bool `env:"DEV" envDefault:"false"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	Email     EmailConfig
	Scheduler SchedulerConfig
	Auth      AuthConfig
	HTTP      HTTPConfig

	Observability ObservabilityConfig

	// Services selects which service modes this process runs,
	// comma-delimited: http, scheduler, email-worker.
	Services string `env:"SERVICES" envDefault:"http,scheduler,email-worker"`
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.Email.Sanitize()
	c.Scheduler.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate enforces hard startup requirements. Database credentials are
// required; everything else degrades (SMTP falls back to simulated send,
// auth-less mode is only allowed in dev).
func (c *AppConfig) Validate() error {
	if c.Postgres.Host == "" || c.Postgres.Name == "" || c.Postgres.User == "" {
		return errors.New("database configuration is required (DB_HOST, DB_NAME, DB_USER)")
	}
	if !c.IsDev && c.Auth.IssuerURL == "" {
		return errors.New("AUTH_ISSUER_URL is required outside dev mode")
	}
	if _, err := c.GetEnabledServices(); err != nil {
		return fmt.Errorf("invalid SERVICES: %w", err)
	}
	return nil
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	return c.serviceEnabled(ServiceModeHTTP)
}

// IsSchedulerEnabled returns true if the cron scheduler service is enabled.
func (c *AppConfig) IsSchedulerEnabled() bool {
	return c.serviceEnabled(ServiceModeScheduler)
}

// IsEmailWorkerEnabled returns true if the email delivery worker is enabled.
func (c *AppConfig) IsEmailWorkerEnabled() bool {
	return c.serviceEnabled(ServiceModeEmailWorker)
}

func (c *AppConfig) serviceEnabled(mode ServiceMode) bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[mode]
}
