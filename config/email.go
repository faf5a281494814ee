package config

import "time"

// EmailConfig contains SMTP provider settings and delivery worker pacing.
// When SMTP host or from-address is missing the service runs in
// simulated-send mode instead of failing at startup.
type EmailConfig struct {
	SMTPHost     string `env:"SMTP_HOST"     envDefault:""`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME" envDefault:""`
	SMTPPassword string `env:"SMTP_PASSWORD" envDefault:""`
	FromAddress  string `env:"EMAIL_FROM"    envDefault:""`

	// SendRetryWindow bounds the in-process backoff around one SMTP send.
	// The queue's own attempt counter handles retries across polls.
	SendRetryWindow time.Duration `env:"EMAIL_SEND_RETRY_WINDOW" envDefault:"10s"`

	// PollInterval paces the delivery loop.
	PollInterval time.Duration `env:"EMAIL_POLL_INTERVAL" envDefault:"60s"`
	// BatchSize caps how many due items one poll processes.
	BatchSize int `env:"EMAIL_BATCH_SIZE" envDefault:"50"`

	// FrontendBaseURL and UnsubscribeURL feed the email templates.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"https://stumbleable.com"`
	UnsubscribeURL  string `env:"UNSUBSCRIBE_URL"   envDefault:"https://stumbleable.com/email-preferences"`
}

// Configured reports whether a real SMTP provider is available.
func (c EmailConfig) Configured() bool {
	return c.SMTPHost != "" && c.FromAddress != ""
}

// Sanitize applies guardrails to email configuration values.
func (c *EmailConfig) Sanitize() {
	if c.PollInterval <= 0 {
		c.PollInterval = 60 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.SMTPPort <= 0 {
		c.SMTPPort = 587
	}
	if c.SendRetryWindow < 0 {
		c.SendRetryWindow = 0
	}
}
