package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stumbleable/jobs/internal/domain/model"
)

// EmailPreferencesRepo reads and writes per-recipient email opt-ins.
type EmailPreferencesRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEmailPreferencesRepo creates a new EmailPreferencesRepo with the given database connection.
func NewEmailPreferencesRepo(db *sql.DB) *EmailPreferencesRepo {
	return &EmailPreferencesRepo{
		DB:           db,
		timeProvider: &RealTimeProvider{},
	}
}

const preferenceColumns = `
  user_id,
  welcome_email,
  weekly_trending,
  weekly_new,
  saved_digest,
  submission_updates,
  re_engagement,
  account_notifications,
  unsubscribed_all,
  updated_at
`

// GetByUserID returns the preference row for a user, or (nil, nil) when no
// row exists. Callers apply category defaults for the nil case.
func (r *EmailPreferencesRepo) GetByUserID(
	ctx context.Context,
	userID string,
) (*model.EmailPreferences, error) {
	query := `SELECT ` + preferenceColumns + ` FROM email_preferences WHERE user_id = $1`

	var prefs model.EmailPreferences
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.WelcomeEmail,
		&prefs.WeeklyTrending,
		&prefs.WeeklyNew,
		&prefs.SavedDigest,
		&prefs.SubmissionUpdates,
		&prefs.ReEngagement,
		&prefs.AccountNotifications,
		&prefs.UnsubscribedAll,
		&prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert writes the full preference row for a user.
func (r *EmailPreferencesRepo) Upsert(ctx context.Context, prefs *model.EmailPreferences) error {
	query := `
		INSERT INTO email_preferences
			(user_id, welcome_email, weekly_trending, weekly_new, saved_digest,
			 submission_updates, re_engagement, account_notifications, unsubscribed_all, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE
		SET welcome_email = EXCLUDED.welcome_email,
		    weekly_trending = EXCLUDED.weekly_trending,
		    weekly_new = EXCLUDED.weekly_new,
		    saved_digest = EXCLUDED.saved_digest,
		    submission_updates = EXCLUDED.submission_updates,
		    re_engagement = EXCLUDED.re_engagement,
		    account_notifications = EXCLUDED.account_notifications,
		    unsubscribed_all = EXCLUDED.unsubscribed_all,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		prefs.UserID,
		prefs.WelcomeEmail,
		prefs.WeeklyTrending,
		prefs.WeeklyNew,
		prefs.SavedDigest,
		prefs.SubmissionUpdates,
		prefs.ReEngagement,
		prefs.AccountNotifications,
		prefs.UnsubscribedAll,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert email preferences: %w", err)
	}
	return nil
}
