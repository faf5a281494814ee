package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/testutil"
)

func insertQueueItem(t *testing.T, repo *EmailQueueRepo, recipient string, maxAttempts int) *model.EmailQueueItem {
	t.Helper()
	item, err := repo.Insert(context.Background(), core.InsertEmailParams{
		EmailType:      model.EmailTypeWelcome,
		RecipientEmail: recipient,
		Subject:        "Welcome to Stumbleable!",
		ScheduledAt:    time.Now().Add(-time.Minute),
		MaxAttempts:    maxAttempts,
	})
	require.NoError(t, err)
	return item
}

func TestEmailQueueRepo_RecordFailure_RetryBudget(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmailQueueRepo(db)
		ctx := context.Background()

		item := insertQueueItem(t, repo, "budget@example.com", 3)
		assert.Equal(t, 0, item.Attempts)
		assert.Equal(t, model.EmailStatusPending, item.Status)

		// Attempts one and two leave the row pending for the next poll cycle.
		for attempt := 1; attempt <= 2; attempt++ {
			status, err := repo.RecordFailure(ctx, core.RecordEmailFailureParams{
				ID:           item.ID,
				ErrorMessage: fmt.Sprintf("smtp timeout %d", attempt),
			})
			require.NoError(t, err)
			assert.Equal(t, model.EmailStatusPending, status)

			got, getErr := repo.GetByID(ctx, item.ID)
			require.NoError(t, getErr)
			assert.Equal(t, attempt, got.Attempts)
		}

		// The third attempt exhausts the budget and flips the row to failed.
		status, err := repo.RecordFailure(ctx, core.RecordEmailFailureParams{
			ID:           item.ID,
			ErrorMessage: "smtp timeout 3",
		})
		require.NoError(t, err)
		assert.Equal(t, model.EmailStatusFailed, status)

		got, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Attempts)
		assert.Equal(t, model.EmailStatusFailed, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "smtp timeout 3", *got.ErrorMessage)

		// A failed row is out of the pending pool.
		_, err = repo.RecordFailure(ctx, core.RecordEmailFailureParams{ID: item.ID, ErrorMessage: "again"})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))

		due, err := repo.SelectDue(ctx, time.Now(), 10)
		require.NoError(t, err)
		assert.Empty(t, due, "exhausted rows must never be re-selected")
	})
}

func TestEmailQueueRepo_SelectDue(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmailQueueRepo(db)
		ctx := context.Background()
		now := time.Now()

		first := insertQueueItem(t, repo, "first@example.com", 3)
		second := insertQueueItem(t, repo, "second@example.com", 3)
		delivered := insertQueueItem(t, repo, "delivered@example.com", 3)
		exhausted := insertQueueItem(t, repo, "exhausted@example.com", 1)

		// Scheduled in the future: not due yet.
		_, err := repo.Insert(ctx, core.InsertEmailParams{
			EmailType:      model.EmailTypeWelcome,
			RecipientEmail: "later@example.com",
			Subject:        "Welcome to Stumbleable!",
			ScheduledAt:    now.Add(time.Hour),
		})
		require.NoError(t, err)

		require.NoError(t, repo.MarkSent(ctx, core.MarkEmailSentParams{ID: delivered.ID, SentAt: now}))
		status, err := repo.RecordFailure(ctx, core.RecordEmailFailureParams{ID: exhausted.ID, ErrorMessage: "bounce"})
		require.NoError(t, err)
		require.Equal(t, model.EmailStatusFailed, status)

		// Pin created_at so FIFO order is deterministic.
		_, err = db.ExecContext(ctx, `UPDATE email_queue SET created_at = $2 WHERE id = $1`, first.ID, now.Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `UPDATE email_queue SET created_at = $2 WHERE id = $1`, second.ID, now.Add(-time.Hour))
		require.NoError(t, err)

		due, err := repo.SelectDue(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, due, 2, "only pending, due, under-budget rows qualify")
		assert.Equal(t, first.ID, due[0].ID)
		assert.Equal(t, second.ID, due[1].ID)

		t.Run("limit", func(t *testing.T) {
			due, err := repo.SelectDue(ctx, now, 1)
			require.NoError(t, err)
			require.Len(t, due, 1)
			assert.Equal(t, first.ID, due[0].ID)
		})

		t.Run("invalid limit", func(t *testing.T) {
			_, err := repo.SelectDue(ctx, now, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "limit must be positive")
		})
	})
}

func TestEmailQueueRepo_MarkSent_PendingGuard(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmailQueueRepo(db)
		ctx := context.Background()
		now := time.Now()

		item := insertQueueItem(t, repo, "guard@example.com", 3)
		require.NoError(t, repo.MarkSent(ctx, core.MarkEmailSentParams{ID: item.ID, SentAt: now}))

		got, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EmailStatusSent, got.Status)
		require.NotNil(t, got.SentAt)

		// Terminal rows are immutable: a second delivery attempt finds no
		// pending row.
		err = repo.MarkSent(ctx, core.MarkEmailSentParams{ID: item.ID, SentAt: now})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repo.RecordFailure(ctx, core.RecordEmailFailureParams{ID: item.ID, ErrorMessage: "late"})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestEmailQueueRepo_ResetForRetry_RejoinsPool(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewEmailQueueRepo(db)
		ctx := context.Background()

		item := insertQueueItem(t, repo, "retry@example.com", 1)
		status, err := repo.RecordFailure(ctx, core.RecordEmailFailureParams{ID: item.ID, ErrorMessage: "bounce"})
		require.NoError(t, err)
		require.Equal(t, model.EmailStatusFailed, status)

		require.NoError(t, repo.ResetForRetry(ctx, item.ID))

		got, err := repo.GetByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EmailStatusPending, got.Status)
		assert.Equal(t, 0, got.Attempts)
		assert.Nil(t, got.ErrorMessage)

		due, err := repo.SelectDue(ctx, time.Now(), 10)
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, item.ID, due[0].ID)
	})
}
