package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data/pgxutil"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// EmailQueueRepo provides database operations for the outbound email queue.
type EmailQueueRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEmailQueueRepo creates a new EmailQueueRepo with the given database connection.
func NewEmailQueueRepo(db *sql.DB) *EmailQueueRepo {
	return &EmailQueueRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

// NewEmailQueueRepoWithTimeProvider creates an EmailQueueRepo with a custom TimeProvider.
func NewEmailQueueRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EmailQueueRepo {
	return &EmailQueueRepo{DB: db, timeProvider: tp}
}

const emailQueueColumns = `
  id,
  user_id,
  email_type,
  recipient_email,
  subject,
  template_data,
  scheduled_at,
  status,
  attempts,
  max_attempts,
  error_message,
  sent_at,
  created_at,
  updated_at
`

// Insert enqueues one pending email with attempts = 0.
func (r *EmailQueueRepo) Insert(
	ctx context.Context,
	params core.InsertEmailParams,
) (*model.EmailQueueItem, error) {
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = model.DefaultMaxAttempts
	}

	query := `
		INSERT INTO email_queue
			(user_id, email_type, recipient_email, subject, template_data, scheduled_at, status, attempts, max_attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		RETURNING ` + emailQueueColumns

	var templateData any
	if len(params.TemplateData) > 0 {
		templateData = []byte(params.TemplateData)
	}

	row := r.DB.QueryRowContext(
		ctx,
		query,
		params.UserID,
		params.EmailType,
		params.RecipientEmail,
		params.Subject,
		templateData,
		params.ScheduledAt.UTC(),
		model.EmailStatusPending,
		maxAttempts,
	)

	item, err := scanQueueItem(row)
	if err != nil {
		return nil, apperrors.QueueWrite(err, "insert email queue item")
	}
	return item, nil
}

// GetByID returns one queue item, or NotFound.
func (r *EmailQueueRepo) GetByID(ctx context.Context, id string) (*model.EmailQueueItem, error) {
	query := `SELECT ` + emailQueueColumns + ` FROM email_queue WHERE id = $1`

	item, err := scanQueueItem(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return nil, apperrors.NotFoundf("email queue item %s not found", id)
		}
		return nil, fmt.Errorf("get email queue item: %w", err)
	}
	return item, nil
}

// SelectDue returns up to limit pending, due, under-budget rows, ordered
// oldest-created-first for FIFO fairness.
// FOR UPDATE SKIP LOCKED keeps concurrent workers off the same rows.
func (r *EmailQueueRepo) SelectDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*model.EmailQueueItem, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT ` + emailQueueColumns + `
		FROM email_queue
		WHERE status = $1 AND scheduled_at <= $2 AND attempts < max_attempts
		ORDER BY created_at ASC
		LIMIT $3
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.DB.QueryContext(ctx, query, model.EmailStatusPending, now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query due emails: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectQueueItems(rows)
}

// MarkSent records a terminal successful delivery (or an opt-out, which is
// recorded as sent with an explanatory note).
func (r *EmailQueueRepo) MarkSent(ctx context.Context, params core.MarkEmailSentParams) error {
	query := `
		UPDATE email_queue
		SET status = $2, sent_at = $3, error_message = $4, updated_at = $5
		WHERE id = $1 AND status = $6
	`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		params.ID,
		model.EmailStatusSent,
		params.SentAt.UTC(),
		params.Note,
		r.timeProvider.Now().UTC(),
		model.EmailStatusPending,
	)
	if err != nil {
		return apperrors.QueueWrite(err, "mark email sent")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.QueueWrite(err, "get rows affected")
	}
	if affected == 0 {
		return apperrors.NotFoundf("pending email queue item %s not found", params.ID)
	}
	return nil
}

// RecordFailure counts one failed attempt. The row stays pending until the
// retry budget is exhausted, then flips to failed. Returns the new status.
func (r *EmailQueueRepo) RecordFailure(
	ctx context.Context,
	params core.RecordEmailFailureParams,
) (model.EmailStatus, error) {
	query := `
		UPDATE email_queue
		SET attempts = attempts + 1,
		    error_message = $2,
		    status = CASE WHEN attempts + 1 >= max_attempts THEN $3 ELSE status END,
		    updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING status
	`

	var status model.EmailStatus
	err := r.DB.QueryRowContext(
		ctx,
		query,
		params.ID,
		params.ErrorMessage,
		model.EmailStatusFailed,
		r.timeProvider.Now().UTC(),
		model.EmailStatusPending,
	).Scan(&status)
	if err != nil {
		if mapped := apperrors.MapDBError(err); apperrors.IsNotFound(mapped) {
			return "", apperrors.NotFoundf("pending email queue item %s not found", params.ID)
		}
		return "", apperrors.QueueWrite(err, "record email failure")
	}
	return status, nil
}

// ResetForRetry sets attempts = 0 and status = pending for one item.
func (r *EmailQueueRepo) ResetForRetry(ctx context.Context, id string) error {
	query := `
		UPDATE email_queue
		SET attempts = 0, status = $2, error_message = NULL, sent_at = NULL, updated_at = $3
		WHERE id = $1
	`

	res, err := r.DB.ExecContext(ctx, query, id, model.EmailStatusPending, r.timeProvider.Now().UTC())
	if err != nil {
		return apperrors.QueueWrite(err, "reset email queue item")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.QueueWrite(err, "get rows affected")
	}
	if affected == 0 {
		return apperrors.NotFoundf("email queue item %s not found", id)
	}
	return nil
}

// Delete hard-deletes one queue item.
func (r *EmailQueueRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM email_queue WHERE id = $1`, id)
	if err != nil {
		return apperrors.QueueWrite(err, "delete email queue item")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.QueueWrite(err, "get rows affected")
	}
	if affected == 0 {
		return apperrors.NotFoundf("email queue item %s not found", id)
	}
	return nil
}

// List returns paginated queue items, newest first.
func (r *EmailQueueRepo) List(
	ctx context.Context,
	q model.QueueItemQuery,
) ([]*model.EmailQueueItem, error) {
	clauses := []string{}
	args := []any{}

	if q.Status != "" {
		args = append(args, q.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.EmailType != "" {
		args = append(args, q.EmailType)
		clauses = append(clauses, fmt.Sprintf("email_type = $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + emailQueueColumns + ` FROM email_queue`)
	if len(clauses) > 0 {
		sb.WriteString(" WHERE " + strings.Join(clauses, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC")

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
		return nil, fmt.Errorf("query email queue: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return collectQueueItems(rows)
}

// Status summarizes the queue for introspection endpoints.
func (r *EmailQueueRepo) Status(ctx context.Context, now time.Time) (*model.QueueStatus, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending' AND scheduled_at <= $1),
			COUNT(*) FILTER (WHERE status = 'sent'),
			COUNT(*) FILTER (WHERE status = 'failed'),
			COUNT(*) FILTER (WHERE status = 'pending' AND scheduled_at > $1)
		FROM email_queue
	`

	status := &model.QueueStatus{}
	err := r.DB.QueryRowContext(ctx, query, now.UTC()).Scan(
		&status.Pending,
		&status.Sent,
		&status.Failed,
		&status.Scheduled,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate email queue: %w", err)
	}
	return status, nil
}

// DeleteTerminalOlderThan removes sent/failed rows created before cutoff,
// along with their audit log rows. Used by the queue-cleanup retention job.
func (r *EmailQueueRepo) DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	deleteLogs := `
		DELETE FROM email_logs
		WHERE queue_item_id IN (
			SELECT id FROM email_queue
			WHERE status IN ($1, $2) AND created_at < $3
		)
	`
	deleteItems := `
		DELETE FROM email_queue
		WHERE status IN ($1, $2) AND created_at < $3
	`

	var deleted int
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			args := []any{model.EmailStatusSent, model.EmailStatusFailed, cutoff.UTC()}
			if _, err := tx.ExecContext(ctx, deleteLogs, args...); err != nil {
				return fmt.Errorf("delete email logs: %w", err)
			}
			res, err := tx.ExecContext(ctx, deleteItems, args...)
			if err != nil {
				return fmt.Errorf("delete terminal email queue items: %w", err)
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("get rows affected: %w", err)
			}
			deleted = int(affected)
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func collectQueueItems(rows *sql.Rows) ([]*model.EmailQueueItem, error) {
	var items []*model.EmailQueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email queue item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email queue items: %w", err)
	}
	return items, nil
}

func scanQueueItem(row rowScanner) (*model.EmailQueueItem, error) {
	var (
		item         model.EmailQueueItem
		userID       sql.NullString
		templateData []byte
		errMsg       sql.NullString
		sentAt       sql.NullTime
	)

	err := row.Scan(
		&item.ID,
		&userID,
		&item.EmailType,
		&item.RecipientEmail,
		&item.Subject,
		&templateData,
		&item.ScheduledAt,
		&item.Status,
		&item.Attempts,
		&item.MaxAttempts,
		&errMsg,
		&sentAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		u := userID.String
		item.UserID = &u
	}
	if len(templateData) > 0 {
		item.TemplateData = json.RawMessage(templateData)
	}
	if errMsg.Valid {
		m := errMsg.String
		item.ErrorMessage = &m
	}
	if sentAt.Valid {
		t := sentAt.Time
		item.SentAt = &t
	}

	return &item, nil
}
