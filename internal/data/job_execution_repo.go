package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// JobExecutionRepo provides database operations for the execution ledger.
type JobExecutionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobExecutionRepo creates a new JobExecutionRepo with the given database connection.
func NewJobExecutionRepo(db *sql.DB) *JobExecutionRepo {
	return &JobExecutionRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewJobExecutionRepoWithTimeProvider creates a JobExecutionRepo with a custom TimeProvider.
func NewJobExecutionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobExecutionRepo {
	return &JobExecutionRepo{DB: db, timeProvider: tp}
}

const executionColumns = `
  id,
  job_name,
  job_type,
  status,
  started_at,
  completed_at,
  duration_ms,
  items_processed,
  items_succeeded,
  items_failed,
  error_message,
  metadata,
  triggered_by,
  triggered_by_user,
  created_at
`

// Create inserts a ledger row with status=running and returns it.
func (r *JobExecutionRepo) Create(
	ctx context.Context,
	params core.CreateExecutionParams,
) (*model.JobExecution, error) {
	query := `
		INSERT INTO job_executions (job_name, job_type, status, started_at, triggered_by, triggered_by_user)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + executionColumns

	row := r.DB.QueryRowContext(
		ctx,
		query,
		params.JobName,
		params.JobType,
		model.ExecutionStatusRunning,
		params.StartedAt.UTC(),
		params.TriggeredBy,
		params.TriggeredByUser,
	)

	exec, err := scanExecution(row)
	if err != nil {
		return nil, apperrors.LedgerWrite(err, "insert job execution")
	}
	return exec, nil
}

// Complete applies the terminal transition exactly once. The status guard
// keeps terminal rows immutable: updating an already-completed or failed row
// affects zero rows and returns (false, nil).
func (r *JobExecutionRepo) Complete(
	ctx context.Context,
	req model.CompleteExecutionRequest,
) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, apperrors.Validation(err.Error())
	}

	query := `
		UPDATE job_executions
		SET status = $2,
		    completed_at = $3,
		    duration_ms = $4,
		    items_processed = $5,
		    items_succeeded = $6,
		    items_failed = $7,
		    error_message = $8,
		    metadata = COALESCE($9, metadata)
		WHERE id = $1 AND status = $10
	`

	var metadata any
	if len(req.Metadata) > 0 {
		metadata = []byte(req.Metadata)
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		req.ID,
		req.Status,
		req.CompletedAt.UTC(),
		req.DurationMs,
		req.ItemsProcessed,
		req.ItemsSucceeded,
		req.ItemsFailed,
		req.ErrorMessage,
		metadata,
		model.ExecutionStatusRunning,
	)
	if err != nil {
		return false, apperrors.LedgerWrite(err, "complete job execution")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.LedgerWrite(err, "get rows affected")
	}
	return affected > 0, nil
}

// GetByID returns one ledger row by id.
func (r *JobExecutionRepo) GetByID(ctx context.Context, id string) (*model.JobExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE id = $1`

	exec, err := scanExecution(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("job execution %s not found", id)
		}
		return nil, fmt.Errorf("get job execution: %w", err)
	}
	return exec, nil
}

// List returns paginated ledger history, newest first.
func (r *JobExecutionRepo) List(
	ctx context.Context,
	q model.ExecutionQuery,
) ([]*model.JobExecution, error) {
	clauses := []string{}
	args := []any{}

	appendFilter := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if q.JobName != "" {
		appendFilter("job_name", q.JobName)
	}
	if q.JobType != "" {
		appendFilter("job_type", q.JobType)
	}
	if q.Status != "" {
		appendFilter("status", q.Status)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + executionColumns + ` FROM job_executions`)
	if len(clauses) > 0 {
		sb.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY started_at DESC")

	limit := q.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	if q.Offset > 0 {
		args = append(args, q.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query job executions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var executions []*model.JobExecution
	for rows.Next() {
		exec, scanErr := scanExecution(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job execution: %w", scanErr)
		}
		executions = append(executions, exec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate job executions: %w", rowsErr)
	}

	return executions, nil
}

// Stats aggregates a job's ledger rows over a trailing window.
func (r *JobExecutionRepo) Stats(
	ctx context.Context,
	jobName string,
	windowDays int,
) (*model.ExecutionStats, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	cutoff := r.timeProvider.Now().UTC().AddDate(0, 0, -windowDays)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COALESCE(AVG(duration_ms), 0),
			COALESCE(SUM(items_processed), 0),
			COALESCE(SUM(items_failed), 0)
		FROM job_executions
		WHERE job_name = $1 AND started_at >= $2
	`

	stats := &model.ExecutionStats{JobName: jobName, WindowDays: windowDays}
	err := r.DB.QueryRowContext(ctx, query, jobName, cutoff).Scan(
		&stats.TotalExecutions,
		&stats.CompletedExecutions,
		&stats.FailedExecutions,
		&stats.AvgDurationMs,
		&stats.TotalItemsProcessed,
		&stats.TotalItemsFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate job executions: %w", err)
	}
	return stats, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (*model.JobExecution, error) {
	var (
		exec        model.JobExecution
		completedAt sql.NullTime
		durationMs  sql.NullInt64
		errMsg      sql.NullString
		metadata    []byte
		trigUser    sql.NullString
	)

	err := row.Scan(
		&exec.ID,
		&exec.JobName,
		&exec.JobType,
		&exec.Status,
		&exec.StartedAt,
		&completedAt,
		&durationMs,
		&exec.ItemsProcessed,
		&exec.ItemsSucceeded,
		&exec.ItemsFailed,
		&errMsg,
		&metadata,
		&exec.TriggeredBy,
		&trigUser,
		&exec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		exec.CompletedAt = &t
	}
	if durationMs.Valid {
		d := durationMs.Int64
		exec.DurationMs = &d
	}
	if errMsg.Valid {
		m := errMsg.String
		exec.ErrorMessage = &m
	}
	if len(metadata) > 0 {
		exec.Metadata = json.RawMessage(metadata)
	}
	if trigUser.Valid {
		u := trigUser.String
		exec.TriggeredByUser = &u
	}

	return &exec, nil
}
