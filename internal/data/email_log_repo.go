package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stumbleable/jobs/internal/core"
)

// EmailLogRepo appends delivery audit rows. Logs are append-only; retention
// is handled by the cleanup job, never by this repo.
type EmailLogRepo struct {
	DB *sql.DB
}

// NewEmailLogRepo creates a new EmailLogRepo with the given database connection.
func NewEmailLogRepo(db *sql.DB) *EmailLogRepo {
	return &EmailLogRepo{DB: db}
}

// Append inserts one audit row.
func (r *EmailLogRepo) Append(ctx context.Context, params core.AppendEmailLogParams) error {
	query := `
		INSERT INTO email_logs
			(queue_item_id, user_id, email_type, recipient_email, status, provider_message_id, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var sentAt any
	if params.SentAt != nil {
		sentAt = params.SentAt.UTC()
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		params.QueueItemID,
		params.UserID,
		params.EmailType,
		params.RecipientEmail,
		params.Status,
		params.ProviderMessageID,
		params.ErrorMessage,
		sentAt,
	)
	if err != nil {
		return fmt.Errorf("append email log: %w", err)
	}
	return nil
}
