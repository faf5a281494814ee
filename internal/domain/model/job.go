// Package model defines the core data types and structures used throughout
// the Stumbleable background-jobs system.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobType represents the category of background job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobType string

// ExecutionStatus represents the current status of one job run.
type ExecutionStatus string

// TriggeredBy records what initiated a job run.
type TriggeredBy string

const (
	// JobTypeEmail represents jobs whose primary output is enqueued email.
	JobTypeEmail JobType = "email"
	// JobTypeCleanup represents retention/cleanup jobs.
	JobTypeCleanup JobType = "cleanup"
	// JobTypeAnalytics represents metric-collection jobs.
	JobTypeAnalytics JobType = "analytics"

	// ExecutionStatusRunning indicates a run is in progress.
	ExecutionStatusRunning ExecutionStatus = "running"
	// ExecutionStatusCompleted indicates the handler returned, even if it
	// reported business-level failures.
	ExecutionStatusCompleted ExecutionStatus = "completed"
	// ExecutionStatusFailed indicates infrastructure-level failure: the
	// handler returned an unexpected error or panicked.
	ExecutionStatusFailed ExecutionStatus = "failed"

	// TriggeredByScheduler marks runs started by a cron tick.
	TriggeredByScheduler TriggeredBy = "scheduler"
	// TriggeredByManual marks runs started by an admin request.
	TriggeredByManual TriggeredBy = "manual"
)

// UnmarshalText implements encoding.TextUnmarshaler for JobType to allow env parsing.
func (t *JobType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	jt := JobType(v)
	if jt.Valid() {
		*t = jt
		return nil
	}
	return fmt.Errorf("invalid JobType: %q", v)
}

// Valid returns true if the JobType is valid.
func (t JobType) Valid() bool {
	return t == JobTypeEmail || t == JobTypeCleanup || t == JobTypeAnalytics
}

// Valid returns true if the ExecutionStatus is valid.
func (s ExecutionStatus) Valid() bool {
	return s == ExecutionStatusRunning || s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// Terminal returns true for statuses that may never regress.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

// Valid returns true if the TriggeredBy value is valid.
func (t TriggeredBy) Valid() bool {
	return t == TriggeredByScheduler || t == TriggeredByManual
}

// JobContext carries per-run information into a job handler.
type JobContext struct {
	JobName         string          `json:"job_name"`
	Config          json.RawMessage `json:"config,omitempty"`
	ExecutionID     string          `json:"execution_id"`
	TriggeredBy     TriggeredBy     `json:"triggered_by"`
	TriggeredByUser *string         `json:"triggered_by_user,omitempty"`
}

// JobResult is returned by a job handler. Handlers report expected business
// failures through Success=false and Error; they return a non-nil error only
// for unexpected infrastructure failures.
type JobResult struct {
	Success        bool            `json:"success"`
	ItemsProcessed int             `json:"items_processed"`
	ItemsSucceeded int             `json:"items_succeeded"`
	ItemsFailed    int             `json:"items_failed"`
	Error          *string         `json:"error,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// JobHandler is the unit of business logic behind a registered job.
type JobHandler func(ctx context.Context, jc JobContext) (JobResult, error)

// JobDefinition is an in-memory registry entry for a recurring job.
// The registry itself is not durable; durable state lives in the execution
// ledger and the job_schedules override table.
type JobDefinition struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	Description    string          `json:"description"`
	CronExpression string          `json:"cron_expression"`
	Enabled        bool            `json:"enabled"`
	JobType        JobType         `json:"job_type"`
	Config         json.RawMessage `json:"config,omitempty"`
	Handler        JobHandler      `json:"-"`
}

// Validate validates the registrable fields of a JobDefinition.
// Cron syntax is validated separately by the registry so that an invalid
// expression registers-but-never-schedules instead of being rejected.
func (d *JobDefinition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("job name is required")
	}
	if !d.JobType.Valid() {
		return errors.New("invalid job type")
	}
	if d.Handler == nil {
		return errors.New("job handler is required")
	}
	return nil
}

// JobInfo is a JobDefinition annotated with live and persisted status,
// returned by registry listing for dashboards.
type JobInfo struct {
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	Description    string          `json:"description"`
	CronExpression string          `json:"cron_expression"`
	Enabled        bool            `json:"enabled"`
	JobType        JobType         `json:"job_type"`
	Config         json.RawMessage `json:"config,omitempty"`
	// IsRunning reports scheduler attachment: the job has a live cron timer.
	IsRunning bool `json:"is_running"`
	// IsExecuting reports an in-flight run at the moment of the snapshot.
	IsExecuting bool         `json:"is_executing"`
	Schedule    *JobSchedule `json:"schedule,omitempty"`
}

// JobExecution is the durable ledger row for one run of a job.
type JobExecution struct {
	ID              string          `json:"id"                          db:"id"`
	JobName         string          `json:"job_name"                    db:"job_name"`
	JobType         JobType         `json:"job_type"                    db:"job_type"`
	Status          ExecutionStatus `json:"status"                      db:"status"`
	StartedAt       time.Time       `json:"started_at"                  db:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"      db:"completed_at"`
	DurationMs      *int64          `json:"duration_ms,omitempty"       db:"duration_ms"`
	ItemsProcessed  int             `json:"items_processed"             db:"items_processed"`
	ItemsSucceeded  int             `json:"items_succeeded"             db:"items_succeeded"`
	ItemsFailed     int             `json:"items_failed"                db:"items_failed"`
	ErrorMessage    *string         `json:"error_message,omitempty"     db:"error_message"`
	Metadata        json.RawMessage `json:"metadata,omitempty"          db:"metadata"`
	TriggeredBy     TriggeredBy     `json:"triggered_by"                db:"triggered_by"`
	TriggeredByUser *string         `json:"triggered_by_user,omitempty" db:"triggered_by_user"`
	CreatedAt       time.Time       `json:"created_at"                  db:"created_at"`
}

// CompleteExecutionRequest carries the terminal update for a ledger row.
type CompleteExecutionRequest struct {
	ID             string
	Status         ExecutionStatus
	CompletedAt    time.Time
	DurationMs     int64
	ItemsProcessed int
	ItemsSucceeded int
	ItemsFailed    int
	ErrorMessage   *string
	Metadata       json.RawMessage
}

// Validate validates the CompleteExecutionRequest fields.
func (r *CompleteExecutionRequest) Validate() error {
	if r.ID == "" {
		return errors.New("execution id is required")
	}
	if !r.Status.Terminal() {
		return fmt.Errorf("completion status must be terminal, got %q", r.Status)
	}
	if r.DurationMs < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// JobSchedule is the durable per-job override row: persisted enabled flag,
// cron expression and config, plus running totals maintained transactionally
// on each completion.
type JobSchedule struct {
	ID             string          `json:"id"                        db:"id"`
	JobName        string          `json:"job_name"                  db:"job_name"`
	DisplayName    string          `json:"display_name"              db:"display_name"`
	CronExpression string          `json:"cron_expression"           db:"cron_expression"`
	Enabled        bool            `json:"enabled"                   db:"enabled"`
	JobType        JobType         `json:"job_type"                  db:"job_type"`
	Config         json.RawMessage `json:"config,omitempty"          db:"config"`
	LastRunAt      *time.Time      `json:"last_run_at,omitempty"     db:"last_run_at"`
	NextRunAt      *time.Time      `json:"next_run_at,omitempty"     db:"next_run_at"`
	TotalRuns      int             `json:"total_runs"                db:"total_runs"`
	SuccessfulRuns int             `json:"successful_runs"           db:"successful_runs"`
	FailedRuns     int             `json:"failed_runs"               db:"failed_runs"`
	UpdatedAt      time.Time       `json:"updated_at"                db:"updated_at"`
}

// ExecutionQuery filters paginated ledger history.
type ExecutionQuery struct {
	JobName string
	JobType JobType
	Status  ExecutionStatus
	Limit   int
	Offset  int
}

// ExecutionStats aggregates ledger rows over a trailing window.
type ExecutionStats struct {
	JobName             string  `json:"job_name"`
	WindowDays          int     `json:"window_days"`
	TotalExecutions     int     `json:"total_executions"`
	CompletedExecutions int     `json:"completed_executions"`
	FailedExecutions    int     `json:"failed_executions"`
	AvgDurationMs       float64 `json:"avg_duration_ms"`
	TotalItemsProcessed int     `json:"total_items_processed"`
	TotalItemsFailed    int     `json:"total_items_failed"`
}
