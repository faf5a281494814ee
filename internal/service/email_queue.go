package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/observability/statsd"
)

const (
	// DefaultPollInterval paces the delivery loop. Retries are not
	// scheduled individually; a failed item simply waits for a later poll.
	DefaultPollInterval = 60 * time.Second
	// DefaultBatchSize caps how many due items one poll processes.
	DefaultBatchSize = 50
	// consecutiveFailureThreshold is how many whole-batch failures in a row
	// escalate from warn to error logging.
	consecutiveFailureThreshold = 3

	optOutNote = "User opted out"
)

// EmailQueueService owns the durable outbound email queue: enqueueing,
// the polling delivery loop, per-item preference checks, rendering and
// provider delivery, and the append-only audit log.
type EmailQueueService struct {
	queue    core.EmailQueueRepository
	logs     core.EmailLogRepository
	prefs    core.EmailPreferencesRepository
	users    core.UserRepository
	renderer core.TemplateRenderer
	sender   core.EmailSender

	pollInterval time.Duration
	batchSize    int
	timeProv     data.TimeProvider
	metrics      statsd.Sink
	logger       *slog.Logger

	consecutiveFailures int
}

// EmailQueueServiceOptions holds the dependencies for creating an EmailQueueService.
type EmailQueueServiceOptions struct {
	Queue        core.EmailQueueRepository
	Logs         core.EmailLogRepository
	Preferences  core.EmailPreferencesRepository
	Users        core.UserRepository
	Renderer     core.TemplateRenderer
	Sender       core.EmailSender
	PollInterval time.Duration
	BatchSize    int
	TimeProvider data.TimeProvider
	Metrics      statsd.Sink
	Logger       *slog.Logger
}

// NewEmailQueueService creates a new EmailQueueService with the given dependencies.
func NewEmailQueueService(opts EmailQueueServiceOptions) *EmailQueueService {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &EmailQueueService{
		queue:        opts.Queue,
		logs:         opts.Logs,
		prefs:        opts.Preferences,
		users:        opts.Users,
		renderer:     opts.Renderer,
		sender:       opts.Sender,
		pollInterval: opts.PollInterval,
		batchSize:    opts.BatchSize,
		timeProv:     opts.TimeProvider,
		metrics:      opts.Metrics,
		logger:       opts.Logger.With("component", "email_queue"),
	}
}

// Enqueue validates the request and inserts one pending queue row. The
// subject comes from the email type's subject table; a caller-supplied user
// id may be an external auth-provider id and is resolved to the internal
// UUID before the row is written.
func (s *EmailQueueService) Enqueue(
	ctx context.Context,
	req model.EnqueueEmailRequest,
) (*model.EmailQueueItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID != nil {
		resolved, err := ResolveUserID(ctx, s.users, *userID)
		if err != nil {
			return nil, err
		}
		userID = &resolved
	}

	scheduledAt := s.timeProv.Now().UTC()
	if req.ScheduledAt != nil {
		scheduledAt = req.ScheduledAt.UTC()
	}

	item, err := s.queue.Insert(ctx, core.InsertEmailParams{
		UserID:         userID,
		EmailType:      req.EmailType,
		RecipientEmail: req.RecipientEmail,
		Subject:        req.EmailType.Subject(),
		TemplateData:   req.TemplateData,
		ScheduledAt:    scheduledAt,
		MaxAttempts:    model.DefaultMaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "email enqueued",
		"queue_item_id", item.ID, "email_type", item.EmailType, "scheduled_at", scheduledAt)
	if s.metrics != nil {
		s.metrics.Count("email.enqueued", 1, map[string]string{"type": string(item.EmailType)})
	}
	return item, nil
}

// BatchSummary reports one delivery poll.
type BatchSummary struct {
	Processed int
	Sent      int
	Skipped   int
	Failed    int
}

// Run drives the delivery loop until the context is canceled. Individual
// batch failures are logged and counted; the loop itself never exits early.
func (s *EmailQueueService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "email delivery loop started",
		"poll_interval", s.pollInterval, "batch_size", s.batchSize)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "email delivery loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ProcessPendingEmails(ctx); err != nil {
				s.consecutiveFailures++
				if s.consecutiveFailures >= consecutiveFailureThreshold {
					s.logger.ErrorContext(ctx, "email delivery repeatedly failing",
						"consecutive_failures", s.consecutiveFailures, "err", err)
				} else {
					s.logger.WarnContext(ctx, "email delivery batch failed", "err", err)
				}
				continue
			}
			s.consecutiveFailures = 0
		}
	}
}

// ProcessPendingEmails delivers one batch of due queue items, oldest first,
// strictly sequentially. A failing item is counted and left for a later
// poll; it never stops the batch.
func (s *EmailQueueService) ProcessPendingEmails(ctx context.Context) (BatchSummary, error) {
	now := s.timeProv.Now().UTC()
	due, err := s.queue.SelectDue(ctx, now, s.batchSize)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("select due emails: %w", err)
	}

	var summary BatchSummary
	for _, item := range due {
		summary.Processed++
		switch outcome := s.processItem(ctx, item); outcome {
		case outcomeSent:
			summary.Sent++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeFailed:
			summary.Failed++
		}
	}

	if summary.Processed > 0 {
		s.logger.InfoContext(ctx, "processed email batch",
			"processed", summary.Processed, "sent", summary.Sent,
			"skipped", summary.Skipped, "failed", summary.Failed)
	}
	return summary, nil
}

type itemOutcome int

const (
	outcomeSent itemOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// processItem runs the full per-item protocol: preference check, render,
// provider send, terminal queue update, audit log append.
func (s *EmailQueueService) processItem(
	ctx context.Context,
	item *model.EmailQueueItem,
) itemOutcome {
	logger := s.logger.With(
		"queue_item_id", item.ID, "email_type", item.EmailType, "to", item.RecipientEmail)

	allowed, err := s.allowedByPreferences(ctx, item)
	if err != nil {
		return s.failItem(ctx, logger, item, fmt.Errorf("preference check: %w", err))
	}
	if !allowed {
		// Recorded as sent with a note so the item is not retried, while
		// the audit trail shows no delivery happened.
		note := optOutNote
		now := s.timeProv.Now().UTC()
		if markErr := s.queue.MarkSent(ctx, core.MarkEmailSentParams{
			ID: item.ID, SentAt: now, Note: &note,
		}); markErr != nil {
			logger.ErrorContext(ctx, "failed to mark opted-out email", "err", markErr)
			return outcomeFailed
		}
		s.appendLog(ctx, logger, item, "skipped", nil, &note, nil)
		logger.InfoContext(ctx, "email skipped per user preferences")
		if s.metrics != nil {
			s.metrics.Count("email.skipped", 1, map[string]string{"type": string(item.EmailType)})
		}
		return outcomeSkipped
	}

	var templateData map[string]any
	if len(item.TemplateData) > 0 {
		if unmarshalErr := json.Unmarshal(item.TemplateData, &templateData); unmarshalErr != nil {
			return s.failItem(ctx, logger, item, fmt.Errorf("decode template data: %w", unmarshalErr))
		}
	}

	body, err := s.renderer.Render(item.EmailType, templateData)
	if err != nil {
		return s.failItem(ctx, logger, item, fmt.Errorf("render: %w", err))
	}

	messageID, err := s.sender.Send(ctx, core.SendEmailRequest{
		To:        item.RecipientEmail,
		Subject:   item.Subject,
		HTMLBody:  body,
		EmailType: item.EmailType,
	})
	if err != nil {
		return s.failItem(ctx, logger, item, err)
	}

	now := s.timeProv.Now().UTC()
	if markErr := s.queue.MarkSent(ctx, core.MarkEmailSentParams{ID: item.ID, SentAt: now}); markErr != nil {
		// The provider accepted the message; the queue row stays pending
		// and may produce a duplicate send on the next poll. Logged loudly.
		logger.ErrorContext(ctx, "sent but failed to mark queue row", "err", markErr)
		return outcomeFailed
	}

	s.appendLog(ctx, logger, item, "sent", &messageID, nil, &now)
	logger.InfoContext(ctx, "email sent", "provider_message_id", messageID)
	if s.metrics != nil {
		s.metrics.Count("email.sent", 1, map[string]string{"type": string(item.EmailType)})
	}
	return outcomeSent
}

// allowedByPreferences applies the recipient's stored preferences, falling
// back to category defaults when the item has no user or no stored row.
func (s *EmailQueueService) allowedByPreferences(
	ctx context.Context,
	item *model.EmailQueueItem,
) (bool, error) {
	var prefs *model.EmailPreferences
	if item.UserID != nil {
		stored, err := s.prefs.GetByUserID(ctx, *item.UserID)
		if err != nil {
			return false, err
		}
		prefs = stored
	}
	return model.AllowsSend(prefs, item.EmailType), nil
}

func (s *EmailQueueService) failItem(
	ctx context.Context,
	logger *slog.Logger,
	item *model.EmailQueueItem,
	cause error,
) itemOutcome {
	newStatus, err := s.queue.RecordFailure(ctx, core.RecordEmailFailureParams{
		ID:           item.ID,
		ErrorMessage: cause.Error(),
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to record delivery failure", "err", err, "cause", cause)
		return outcomeFailed
	}

	msg := cause.Error()
	s.appendLog(ctx, logger, item, "failed", nil, &msg, nil)

	if newStatus == model.EmailStatusFailed {
		logger.ErrorContext(ctx, "email permanently failed",
			"attempts", item.Attempts+1, "max_attempts", item.MaxAttempts, "err", cause)
	} else {
		logger.WarnContext(ctx, "email attempt failed, will retry",
			"attempts", item.Attempts+1, "max_attempts", item.MaxAttempts, "err", cause)
	}
	if s.metrics != nil {
		s.metrics.Count("email.failed", 1, map[string]string{
			"type": string(item.EmailType), "terminal": fmt.Sprintf("%t", newStatus == model.EmailStatusFailed),
		})
	}
	return outcomeFailed
}

func (s *EmailQueueService) appendLog(
	ctx context.Context,
	logger *slog.Logger,
	item *model.EmailQueueItem,
	status string,
	providerMessageID, errorMessage *string,
	sentAt *time.Time,
) {
	err := s.logs.Append(ctx, core.AppendEmailLogParams{
		QueueItemID:       item.ID,
		UserID:            item.UserID,
		EmailType:         item.EmailType,
		RecipientEmail:    item.RecipientEmail,
		Status:            status,
		ProviderMessageID: providerMessageID,
		ErrorMessage:      errorMessage,
		SentAt:            sentAt,
	})
	if err != nil {
		// The audit log is best effort; the queue row already holds the outcome.
		logger.WarnContext(ctx, "failed to append email log", "err", err)
	}
}

// RetryEmail resets a failed item back to pending with a fresh attempt
// budget. Retrying a pending or sent item is a validation error.
func (s *EmailQueueService) RetryEmail(ctx context.Context, id string) (*model.EmailQueueItem, error) {
	item, err := s.queue.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != model.EmailStatusFailed {
		return nil, apperrors.Validationf("only failed emails can be retried, item is %q", item.Status)
	}
	if err := s.queue.ResetForRetry(ctx, id); err != nil {
		return nil, err
	}
	return s.queue.GetByID(ctx, id)
}

// DeleteEmail removes one queue item.
func (s *EmailQueueService) DeleteEmail(ctx context.Context, id string) error {
	if _, err := s.queue.GetByID(ctx, id); err != nil {
		return err
	}
	return s.queue.Delete(ctx, id)
}

// QueueStatus returns aggregate queue counts.
func (s *EmailQueueService) QueueStatus(ctx context.Context) (*model.QueueStatus, error) {
	return s.queue.Status(ctx, s.timeProv.Now().UTC())
}

// ListItems returns filtered queue items, newest first.
func (s *EmailQueueService) ListItems(
	ctx context.Context,
	q model.QueueItemQuery,
) ([]*model.EmailQueueItem, error) {
	return s.queue.List(ctx, q)
}

// PurgeTerminal removes sent and failed rows older than the cutoff and
// returns the number removed. Called by the queue-cleanup job.
func (s *EmailQueueService) PurgeTerminal(ctx context.Context, cutoff time.Time) (int, error) {
	return s.queue.DeleteTerminalOlderThan(ctx, cutoff)
}
