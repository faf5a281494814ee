package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// JobScheduleRepo provides database operations for per-job schedule overrides
// and running totals.
type JobScheduleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobScheduleRepo creates a new JobScheduleRepo with the given database connection.
func NewJobScheduleRepo(db *sql.DB) *JobScheduleRepo {
	return &JobScheduleRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewJobScheduleRepoWithTimeProvider creates a JobScheduleRepo with a custom TimeProvider.
func NewJobScheduleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobScheduleRepo {
	return &JobScheduleRepo{DB: db, timeProvider: tp}
}

const scheduleColumns = `
  id,
  job_name,
  display_name,
  cron_expression,
  enabled,
  job_type,
  config,
  last_run_at,
  next_run_at,
  total_runs,
  successful_runs,
  failed_runs,
  updated_at
`

// Upsert inserts the schedule row if missing. Existing rows keep their
// persisted enabled/cron/config values so runtime overrides survive restarts;
// only the display name and job type track the registration.
func (r *JobScheduleRepo) Upsert(
	ctx context.Context,
	params core.UpsertScheduleParams,
) (*model.JobSchedule, error) {
	now := r.timeProvider.Now().UTC()

	query := `
		INSERT INTO job_schedules (job_name, display_name, cron_expression, enabled, job_type, config, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (job_name) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    job_type = EXCLUDED.job_type,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + scheduleColumns

	var config any
	if len(params.Config) > 0 {
		config = []byte(params.Config)
	}

	row := r.DB.QueryRowContext(
		ctx,
		query,
		params.JobName,
		params.DisplayName,
		params.CronExpression,
		params.Enabled,
		params.JobType,
		config,
		now,
	)

	sched, err := scanSchedule(row)
	if err != nil {
		return nil, fmt.Errorf("upsert job schedule: %w", err)
	}
	return sched, nil
}

// GetByName returns one schedule row, or NotFound.
func (r *JobScheduleRepo) GetByName(ctx context.Context, jobName string) (*model.JobSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM job_schedules WHERE job_name = $1`

	sched, err := scanSchedule(r.DB.QueryRowContext(ctx, query, jobName))
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("job schedule %q not found", jobName)
		}
		return nil, fmt.Errorf("get job schedule: %w", err)
	}
	return sched, nil
}

// List returns all schedule rows ordered by job name.
func (r *JobScheduleRepo) List(ctx context.Context) ([]*model.JobSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM job_schedules ORDER BY job_name ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query job schedules: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var schedules []*model.JobSchedule
	for rows.Next() {
		sched, scanErr := scanSchedule(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job schedule: %w", scanErr)
		}
		schedules = append(schedules, sched)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate job schedules: %w", rowsErr)
	}

	return schedules, nil
}

// SetEnabled persists the enabled flag for one job.
func (r *JobScheduleRepo) SetEnabled(ctx context.Context, jobName string, enabled bool) error {
	return r.updateField(ctx, jobName, "enabled", enabled)
}

// SetCronExpression persists a new cron expression. The caller validates
// the expression before persisting.
func (r *JobScheduleRepo) SetCronExpression(ctx context.Context, jobName string, expr string) error {
	return r.updateField(ctx, jobName, "cron_expression", expr)
}

func (r *JobScheduleRepo) updateField(ctx context.Context, jobName, column string, value any) error {
	query := fmt.Sprintf(
		`UPDATE job_schedules SET %s = $2, updated_at = $3 WHERE job_name = $1`,
		column,
	)

	res, err := r.DB.ExecContext(ctx, query, jobName, value, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job schedule %s: %w", column, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("job schedule %q not found", jobName)
	}
	return nil
}

// RecordCompletion transactionally bumps run counters and timestamps after a run.
func (r *JobScheduleRepo) RecordCompletion(
	ctx context.Context,
	params core.RecordCompletionParams,
) error {
	successDelta := 0
	failedDelta := 0
	if params.Succeeded {
		successDelta = 1
	} else {
		failedDelta = 1
	}

	query := `
		UPDATE job_schedules
		SET total_runs = total_runs + 1,
		    successful_runs = successful_runs + $2,
		    failed_runs = failed_runs + $3,
		    last_run_at = $4,
		    next_run_at = $5,
		    updated_at = $6
		WHERE job_name = $1
	`

	var nextRun any
	if params.NextRunAt != nil {
		nextRun = params.NextRunAt.UTC()
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		params.JobName,
		successDelta,
		failedDelta,
		params.RanAt.UTC(),
		nextRun,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record job completion: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("job schedule %q not found", params.JobName)
	}
	return nil
}

func scanSchedule(row rowScanner) (*model.JobSchedule, error) {
	var (
		sched     model.JobSchedule
		config    []byte
		lastRunAt sql.NullTime
		nextRunAt sql.NullTime
	)

	err := row.Scan(
		&sched.ID,
		&sched.JobName,
		&sched.DisplayName,
		&sched.CronExpression,
		&sched.Enabled,
		&sched.JobType,
		&config,
		&lastRunAt,
		&nextRunAt,
		&sched.TotalRuns,
		&sched.SuccessfulRuns,
		&sched.FailedRuns,
		&sched.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(config) > 0 {
		sched.Config = json.RawMessage(config)
	}
	if lastRunAt.Valid {
		t := lastRunAt.Time
		sched.LastRunAt = &t
	}
	if nextRunAt.Valid {
		t := nextRunAt.Time
		sched.NextRunAt = &t
	}

	return &sched, nil
}
