package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/mocks"
)

type queueFixture struct {
	svc      *EmailQueueService
	queue    *mocks.MockEmailQueueRepository
	logs     *mocks.MockEmailLogRepository
	prefs    *mocks.MockEmailPreferencesRepository
	users    *mocks.MockUserRepository
	renderer *mocks.MockTemplateRenderer
	sender   *mocks.MockEmailSender
}

func newQueueFixture(t *testing.T) *queueFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &queueFixture{
		queue:    mocks.NewMockEmailQueueRepository(ctrl),
		logs:     mocks.NewMockEmailLogRepository(ctrl),
		prefs:    mocks.NewMockEmailPreferencesRepository(ctrl),
		users:    mocks.NewMockUserRepository(ctrl),
		renderer: mocks.NewMockTemplateRenderer(ctrl),
		sender:   mocks.NewMockEmailSender(ctrl),
	}
	f.svc = NewEmailQueueService(EmailQueueServiceOptions{
		Queue:        f.queue,
		Logs:         f.logs,
		Preferences:  f.prefs,
		Users:        f.users,
		Renderer:     f.renderer,
		Sender:       f.sender,
		TimeProvider: fixedClock(),
	})
	return f
}

func pendingItem(id string, emailType model.EmailType, userID *string) *model.EmailQueueItem {
	return &model.EmailQueueItem{
		ID:             id,
		UserID:         userID,
		EmailType:      emailType,
		RecipientEmail: "someone@example.com",
		Subject:        emailType.Subject(),
		Status:         model.EmailStatusPending,
		MaxAttempts:    model.DefaultMaxAttempts,
	}
}

func TestEnqueue(t *testing.T) {
	t.Run("invalid recipient rejected", func(t *testing.T) {
		f := newQueueFixture(t)
		_, err := f.svc.Enqueue(context.Background(), model.EnqueueEmailRequest{
			EmailType:      model.EmailTypeWelcome,
			RecipientEmail: "not-an-address",
		})
		require.Error(t, err)
	})

	t.Run("unknown email type rejected", func(t *testing.T) {
		f := newQueueFixture(t)
		_, err := f.svc.Enqueue(context.Background(), model.EnqueueEmailRequest{
			EmailType:      "newsletter",
			RecipientEmail: "someone@example.com",
		})
		require.Error(t, err)
	})

	t.Run("subject and defaults filled from email type", func(t *testing.T) {
		f := newQueueFixture(t)
		f.queue.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params core.InsertEmailParams) (*model.EmailQueueItem, error) {
				assert.Equal(t, "Welcome to Stumbleable!", params.Subject)
				assert.Equal(t, model.DefaultMaxAttempts, params.MaxAttempts)
				assert.Nil(t, params.UserID)
				assert.Equal(t, fixedClock().Now().UTC(), params.ScheduledAt)
				return pendingItem("q-1", params.EmailType, nil), nil
			})

		item, err := f.svc.Enqueue(context.Background(), model.EnqueueEmailRequest{
			EmailType:      model.EmailTypeWelcome,
			RecipientEmail: "someone@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "q-1", item.ID)
	})

	t.Run("external user id resolved before insert", func(t *testing.T) {
		f := newQueueFixture(t)
		externalID := "clerk_abc123"
		internalID := "7d7e9c62-59f8-4f93-9a29-2f1f8f6f3b01"

		f.users.EXPECT().ResolveExternalID(gomock.Any(), externalID).Return(internalID, nil)
		f.queue.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params core.InsertEmailParams) (*model.EmailQueueItem, error) {
				require.NotNil(t, params.UserID)
				assert.Equal(t, internalID, *params.UserID)
				return pendingItem("q-2", params.EmailType, params.UserID), nil
			})

		_, err := f.svc.Enqueue(context.Background(), model.EnqueueEmailRequest{
			UserID:         &externalID,
			EmailType:      model.EmailTypeSubmissionApproved,
			RecipientEmail: "someone@example.com",
		})
		require.NoError(t, err)
	})

	t.Run("unresolvable user id fails the enqueue", func(t *testing.T) {
		f := newQueueFixture(t)
		externalID := "clerk_missing"
		f.users.EXPECT().ResolveExternalID(gomock.Any(), externalID).
			Return("", apperrors.NotFound("user not found"))

		_, err := f.svc.Enqueue(context.Background(), model.EnqueueEmailRequest{
			UserID:         &externalID,
			EmailType:      model.EmailTypeWelcome,
			RecipientEmail: "someone@example.com",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestProcessPendingEmails_SentPath(t *testing.T) {
	f := newQueueFixture(t)
	userID := "user-1"
	item := pendingItem("q-1", model.EmailTypeWelcome, &userID)
	item.TemplateData = json.RawMessage(`{"firstName":"Ada"}`)

	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return([]*model.EmailQueueItem{item}, nil)
	f.prefs.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)
	f.renderer.EXPECT().Render(model.EmailTypeWelcome, map[string]any{"firstName": "Ada"}).
		Return("<html>hi Ada</html>", nil)
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req core.SendEmailRequest) (string, error) {
			assert.Equal(t, "someone@example.com", req.To)
			assert.Equal(t, "Welcome to Stumbleable!", req.Subject)
			assert.Equal(t, "<html>hi Ada</html>", req.HTMLBody)
			return "msg-123", nil
		})
	f.queue.EXPECT().MarkSent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.MarkEmailSentParams) error {
			assert.Equal(t, "q-1", params.ID)
			assert.Nil(t, params.Note)
			return nil
		})
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.AppendEmailLogParams) error {
			assert.Equal(t, "sent", params.Status)
			require.NotNil(t, params.ProviderMessageID)
			assert.Equal(t, "msg-123", *params.ProviderMessageID)
			return nil
		})

	summary, err := f.svc.ProcessPendingEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Processed: 1, Sent: 1}, summary)
}

func TestProcessPendingEmails_OptOut(t *testing.T) {
	tests := []struct {
		name  string
		prefs *model.EmailPreferences
	}{
		{
			name:  "marketing type with no stored preferences",
			prefs: nil,
		},
		{
			name:  "unsubscribed from everything",
			prefs: &model.EmailPreferences{UserID: "user-1", UnsubscribedAll: true, WeeklyTrending: true},
		},
		{
			name:  "category switched off",
			prefs: &model.EmailPreferences{UserID: "user-1", WeeklyTrending: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQueueFixture(t)
			userID := "user-1"
			item := pendingItem("q-1", model.EmailTypeWeeklyTrending, &userID)

			f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
				Return([]*model.EmailQueueItem{item}, nil)
			f.prefs.EXPECT().GetByUserID(gomock.Any(), userID).Return(tt.prefs, nil)
			// No renderer or sender expectations: the item never reaches delivery.
			f.queue.EXPECT().MarkSent(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, params core.MarkEmailSentParams) error {
					require.NotNil(t, params.Note)
					assert.Equal(t, "User opted out", *params.Note)
					return nil
				})
			f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, params core.AppendEmailLogParams) error {
					assert.Equal(t, "skipped", params.Status)
					assert.Nil(t, params.SentAt)
					return nil
				})

			summary, err := f.svc.ProcessPendingEmails(context.Background())
			require.NoError(t, err)
			assert.Equal(t, BatchSummary{Processed: 1, Skipped: 1}, summary)
		})
	}
}

func TestProcessPendingEmails_TransactionalDefaultAllows(t *testing.T) {
	// A deletion notice goes out even with no preference row stored.
	f := newQueueFixture(t)
	userID := "user-1"
	item := pendingItem("q-1", model.EmailTypeDeletionComplete, &userID)

	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return([]*model.EmailQueueItem{item}, nil)
	f.prefs.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)
	f.renderer.EXPECT().Render(model.EmailTypeDeletionComplete, gomock.Nil()).Return("<html></html>", nil)
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-1", nil)
	f.queue.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Return(nil)
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := f.svc.ProcessPendingEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
}

func TestProcessPendingEmails_AnonymousItemSkipsPreferenceLookup(t *testing.T) {
	f := newQueueFixture(t)
	item := pendingItem("q-1", model.EmailTypeWelcome, nil)

	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return([]*model.EmailQueueItem{item}, nil)
	// No GetByUserID expectation: items without a user skip the lookup.
	f.renderer.EXPECT().Render(model.EmailTypeWelcome, gomock.Nil()).Return("<html></html>", nil)
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-1", nil)
	f.queue.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Return(nil)
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := f.svc.ProcessPendingEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Sent)
}

func TestProcessPendingEmails_SendFailure(t *testing.T) {
	f := newQueueFixture(t)
	first := pendingItem("q-1", model.EmailTypeWelcome, nil)
	second := pendingItem("q-2", model.EmailTypeWelcome, nil)

	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return([]*model.EmailQueueItem{first, second}, nil)

	f.renderer.EXPECT().Render(model.EmailTypeWelcome, gomock.Nil()).Return("<html></html>", nil).Times(2)
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("", errors.New("smtp timeout"))
	f.queue.EXPECT().RecordFailure(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.RecordEmailFailureParams) (model.EmailStatus, error) {
			assert.Equal(t, "q-1", params.ID)
			assert.Equal(t, "smtp timeout", params.ErrorMessage)
			return model.EmailStatusPending, nil
		})
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.AppendEmailLogParams) error {
			assert.Equal(t, "failed", params.Status)
			require.NotNil(t, params.ErrorMessage)
			return nil
		})

	// The failing item does not stop the batch; the second item is delivered.
	f.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return("msg-2", nil)
	f.queue.EXPECT().MarkSent(gomock.Any(), gomock.Any()).Return(nil)
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := f.svc.ProcessPendingEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Processed: 2, Sent: 1, Failed: 1}, summary)
}

func TestProcessPendingEmails_RenderFailure(t *testing.T) {
	f := newQueueFixture(t)
	item := pendingItem("q-1", model.EmailTypeWelcome, nil)

	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return([]*model.EmailQueueItem{item}, nil)
	f.renderer.EXPECT().Render(model.EmailTypeWelcome, gomock.Nil()).
		Return("", errors.New("missing template"))
	f.queue.EXPECT().RecordFailure(gomock.Any(), gomock.Any()).Return(model.EmailStatusFailed, nil)
	f.logs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

	summary, err := f.svc.ProcessPendingEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}

func TestProcessPendingEmails_SelectDueError(t *testing.T) {
	f := newQueueFixture(t)
	f.queue.EXPECT().SelectDue(gomock.Any(), gomock.Any(), DefaultBatchSize).
		Return(nil, errors.New("db down"))

	_, err := f.svc.ProcessPendingEmails(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select due emails")
}

func TestRetryEmail(t *testing.T) {
	t.Run("only failed items can be retried", func(t *testing.T) {
		f := newQueueFixture(t)
		item := pendingItem("q-1", model.EmailTypeWelcome, nil)
		item.Status = model.EmailStatusSent
		f.queue.EXPECT().GetByID(gomock.Any(), "q-1").Return(item, nil)

		_, err := f.svc.RetryEmail(context.Background(), "q-1")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("failed item resets to pending", func(t *testing.T) {
		f := newQueueFixture(t)
		failed := pendingItem("q-1", model.EmailTypeWelcome, nil)
		failed.Status = model.EmailStatusFailed
		reset := pendingItem("q-1", model.EmailTypeWelcome, nil)

		gomock.InOrder(
			f.queue.EXPECT().GetByID(gomock.Any(), "q-1").Return(failed, nil),
			f.queue.EXPECT().ResetForRetry(gomock.Any(), "q-1").Return(nil),
			f.queue.EXPECT().GetByID(gomock.Any(), "q-1").Return(reset, nil),
		)

		item, err := f.svc.RetryEmail(context.Background(), "q-1")
		require.NoError(t, err)
		assert.Equal(t, model.EmailStatusPending, item.Status)
	})

	t.Run("missing item", func(t *testing.T) {
		f := newQueueFixture(t)
		f.queue.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, apperrors.NotFound("no row"))
		_, err := f.svc.RetryEmail(context.Background(), "missing")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDeleteEmail(t *testing.T) {
	t.Run("existing item deleted", func(t *testing.T) {
		f := newQueueFixture(t)
		item := pendingItem("q-1", model.EmailTypeWelcome, nil)
		f.queue.EXPECT().GetByID(gomock.Any(), "q-1").Return(item, nil)
		f.queue.EXPECT().Delete(gomock.Any(), "q-1").Return(nil)
		require.NoError(t, f.svc.DeleteEmail(context.Background(), "q-1"))
	})

	t.Run("missing item is not deleted", func(t *testing.T) {
		f := newQueueFixture(t)
		f.queue.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, apperrors.NotFound("no row"))
		err := f.svc.DeleteEmail(context.Background(), "missing")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestPurgeTerminal(t *testing.T) {
	f := newQueueFixture(t)
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f.queue.EXPECT().DeleteTerminalOlderThan(gomock.Any(), cutoff).Return(42, nil)

	n, err := f.svc.PurgeTerminal(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestQueueStatus(t *testing.T) {
	f := newQueueFixture(t)
	f.queue.EXPECT().Status(gomock.Any(), fixedClock().Now().UTC()).
		Return(&model.QueueStatus{Pending: 3, Sent: 10}, nil)

	status, err := f.svc.QueueStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, status.Pending)
}
