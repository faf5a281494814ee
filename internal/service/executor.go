// Package service provides the business logic for the Stumbleable
// background-jobs system: the job registry and executor, the email delivery
// queue, preference checks, and trust scoring.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/observability/statsd"
)

// DefaultExecutionTimeout bounds a single handler invocation.
const DefaultExecutionTimeout = 10 * time.Minute

// ExecutorService runs job handlers under the execution ledger protocol:
// every invocation opens a running ledger row, and the row reaches exactly
// one terminal state. A handler that returns a result is recorded completed
// even when the result reports business-level failures; failed is reserved
// for handler errors and panics.
type ExecutorService struct {
	ledger    core.JobExecutionRepository
	schedules core.JobScheduleRepository
	timeout   time.Duration
	timeProv  data.TimeProvider
	metrics   statsd.Sink
	logger    *slog.Logger
}

// ExecutorServiceOptions holds the dependencies for creating an ExecutorService.
type ExecutorServiceOptions struct {
	Ledger       core.JobExecutionRepository
	Schedules    core.JobScheduleRepository
	Timeout      time.Duration
	TimeProvider data.TimeProvider
	Metrics      statsd.Sink
	Logger       *slog.Logger
}

// NewExecutorService creates a new ExecutorService with the given dependencies.
func NewExecutorService(opts ExecutorServiceOptions) *ExecutorService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultExecutionTimeout
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ExecutorService{
		ledger:    opts.Ledger,
		schedules: opts.Schedules,
		timeout:   opts.Timeout,
		timeProv:  opts.TimeProvider,
		metrics:   opts.Metrics,
		logger:    opts.Logger.With("component", "executor"),
	}
}

// ExecuteParams carries one invocation of a registered job.
type ExecuteParams struct {
	Definition      model.JobDefinition
	TriggeredBy     model.TriggeredBy
	TriggeredByUser *string
	// NextRunAt, when known, is written to the schedule counters so
	// dashboards can show the upcoming run.
	NextRunAt *time.Time
}

// Execute runs one job under the ledger protocol and returns the terminal
// ledger row. The returned error reflects handler failure; ledger write
// failures are logged and surfaced through the row's absence.
func (s *ExecutorService) Execute(
	ctx context.Context,
	params ExecuteParams,
) (*model.JobExecution, model.JobResult, error) {
	def := params.Definition
	startedAt := s.timeProv.Now().UTC()
	logger := s.logger.With("job_name", def.Name, "triggered_by", params.TriggeredBy)

	execution, err := s.ledger.Create(ctx, core.CreateExecutionParams{
		JobName:         def.Name,
		JobType:         def.JobType,
		StartedAt:       startedAt,
		TriggeredBy:     params.TriggeredBy,
		TriggeredByUser: params.TriggeredByUser,
	})
	if err != nil {
		// The run proceeds without a ledger row rather than blocking the
		// job on ledger availability.
		logger.ErrorContext(ctx, "failed to open ledger row", "err", err)
		execution = nil
	}

	executionID := ""
	if execution != nil {
		executionID = execution.ID
		logger = logger.With("execution_id", executionID)
	}

	result, handlerErr := s.invoke(ctx, def, model.JobContext{
		JobName:         def.Name,
		Config:          def.Config,
		ExecutionID:     executionID,
		TriggeredBy:     params.TriggeredBy,
		TriggeredByUser: params.TriggeredByUser,
	})

	completedAt := s.timeProv.Now().UTC()
	durationMs := completedAt.Sub(startedAt).Milliseconds()

	status := model.ExecutionStatusCompleted
	var errorMessage *string
	if handlerErr != nil {
		status = model.ExecutionStatusFailed
		msg := handlerErr.Error()
		errorMessage = &msg
	} else if result.Error != nil {
		// Business-level failure: the run still completed.
		errorMessage = result.Error
	}

	if execution != nil {
		applied, completeErr := s.ledger.Complete(ctx, model.CompleteExecutionRequest{
			ID:             executionID,
			Status:         status,
			CompletedAt:    completedAt,
			DurationMs:     durationMs,
			ItemsProcessed: result.ItemsProcessed,
			ItemsSucceeded: result.ItemsSucceeded,
			ItemsFailed:    result.ItemsFailed,
			ErrorMessage:   errorMessage,
			Metadata:       result.Metadata,
		})
		if completeErr != nil {
			logger.ErrorContext(ctx, "failed to close ledger row", "err", completeErr)
		} else if applied {
			refreshed, getErr := s.ledger.GetByID(ctx, executionID)
			if getErr == nil {
				execution = refreshed
			}
		}
	}

	s.recordCompletion(ctx, logger, def.Name, status, completedAt, params.NextRunAt)
	s.emitMetrics(def.Name, status, durationMs)

	if handlerErr != nil {
		logger.ErrorContext(ctx, "job failed", "err", handlerErr, "duration_ms", durationMs)
		return execution, result, apperrors.HandlerExecution(handlerErr,
			fmt.Sprintf("job %s failed", def.Name))
	}

	logger.InfoContext(ctx, "job completed",
		"duration_ms", durationMs,
		"items_processed", result.ItemsProcessed,
		"items_failed", result.ItemsFailed,
		"success", result.Success)
	return execution, result, nil
}

// invoke runs the handler with the configured deadline and converts panics
// into errors so one bad job never takes down the scheduler.
func (s *ExecutorService) invoke(
	ctx context.Context,
	def model.JobDefinition,
	jc model.JobContext,
) (result model.JobResult, err error) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "job handler panicked",
				"job_name", def.Name, "panic", r, "stack", string(debug.Stack()))
			result = model.JobResult{Success: false}
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return def.Handler(runCtx, jc)
}

func (s *ExecutorService) recordCompletion(
	ctx context.Context,
	logger *slog.Logger,
	jobName string,
	status model.ExecutionStatus,
	ranAt time.Time,
	nextRunAt *time.Time,
) {
	if s.schedules == nil {
		return
	}
	err := s.schedules.RecordCompletion(ctx, core.RecordCompletionParams{
		JobName:   jobName,
		Succeeded: status == model.ExecutionStatusCompleted,
		RanAt:     ranAt,
		NextRunAt: nextRunAt,
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to record schedule completion", "err", err)
	}
}

func (s *ExecutorService) emitMetrics(
	jobName string,
	status model.ExecutionStatus,
	durationMs int64,
) {
	if s.metrics == nil {
		return
	}
	tags := map[string]string{"job": jobName, "status": string(status)}
	s.metrics.Count("jobs.execution", 1, tags)
	s.metrics.Timing("jobs.duration_ms", time.Duration(durationMs)*time.Millisecond, tags)
}
