package config

import "time"

// SchedulerConfig contains cron scheduler and executor configuration.
type SchedulerConfig struct {
	// ExecutionTimeout bounds one handler invocation via context deadline.
	ExecutionTimeout time.Duration `env:"SCHEDULER_EXECUTION_TIMEOUT" envDefault:"10m"`

	// DisableBuiltinJobs skips registering the stock job set. Useful for
	// one-off admin runs against a shared database.
	DisableBuiltinJobs bool `env:"SCHEDULER_DISABLE_BUILTIN_JOBS" envDefault:"false"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (c *SchedulerConfig) Sanitize() {
	if c.ExecutionTimeout <= 0 {
		c.ExecutionTimeout = 10 * time.Minute
	}
}
