// Package core defines the repository and provider ports that connect the
// service layer to the data layer. Services depend on these interfaces so
// tests can swap in fakes without a database.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stumbleable/jobs/internal/domain/model"
)

// CreateExecutionParams carries the fields for a new ledger row.
type CreateExecutionParams struct {
	JobName         string
	JobType         model.JobType
	StartedAt       time.Time
	TriggeredBy     model.TriggeredBy
	TriggeredByUser *string
}

// JobExecutionRepository persists the execution ledger.
type JobExecutionRepository interface {
	// Create inserts a row with status=running and returns it.
	Create(ctx context.Context, params CreateExecutionParams) (*model.JobExecution, error)
	// Complete applies the terminal transition exactly once. Completing an
	// already-terminal row is a no-op returning (false, nil).
	Complete(ctx context.Context, req model.CompleteExecutionRequest) (bool, error)
	// GetByID returns one ledger row.
	GetByID(ctx context.Context, id string) (*model.JobExecution, error)
	// List returns history, newest first.
	List(ctx context.Context, q model.ExecutionQuery) ([]*model.JobExecution, error)
	// Stats aggregates a job's ledger rows over a trailing window.
	Stats(ctx context.Context, jobName string, windowDays int) (*model.ExecutionStats, error)
}

// UpsertScheduleParams carries the registry-derived fields for a schedule row.
type UpsertScheduleParams struct {
	JobName        string
	DisplayName    string
	CronExpression string
	Enabled        bool
	JobType        model.JobType
	Config         json.RawMessage
}

// RecordCompletionParams updates schedule counters after a run finishes.
type RecordCompletionParams struct {
	JobName   string
	Succeeded bool
	RanAt     time.Time
	NextRunAt *time.Time
}

// JobScheduleRepository persists per-job overrides and running totals.
type JobScheduleRepository interface {
	// Upsert inserts the row if missing; existing rows keep their persisted
	// enabled/cron/config values (persisted overrides win over registration).
	Upsert(ctx context.Context, params UpsertScheduleParams) (*model.JobSchedule, error)
	// GetByName returns the schedule row for a job, or NotFound.
	GetByName(ctx context.Context, jobName string) (*model.JobSchedule, error)
	// List returns all schedule rows.
	List(ctx context.Context) ([]*model.JobSchedule, error)
	// SetEnabled persists the enabled flag.
	SetEnabled(ctx context.Context, jobName string, enabled bool) error
	// SetCronExpression persists a validated cron expression.
	SetCronExpression(ctx context.Context, jobName string, expr string) error
	// RecordCompletion bumps run counters and last/next run timestamps.
	RecordCompletion(ctx context.Context, params RecordCompletionParams) error
}

// InsertEmailParams carries the fields for a new queue row.
type InsertEmailParams struct {
	UserID         *string
	EmailType      model.EmailType
	RecipientEmail string
	Subject        string
	TemplateData   json.RawMessage
	ScheduledAt    time.Time
	MaxAttempts    int
}

// MarkEmailSentParams records a terminal successful delivery.
type MarkEmailSentParams struct {
	ID     string
	SentAt time.Time
	// Note annotates non-delivery "sent" outcomes, e.g. preference opt-outs.
	Note *string
}

// RecordEmailFailureParams increments attempts and, once the budget is
// exhausted, flips the row to failed.
type RecordEmailFailureParams struct {
	ID           string
	ErrorMessage string
}

// EmailQueueRepository persists the outbound email queue.
type EmailQueueRepository interface {
	Insert(ctx context.Context, params InsertEmailParams) (*model.EmailQueueItem, error)
	GetByID(ctx context.Context, id string) (*model.EmailQueueItem, error)
	// SelectDue returns up to limit pending, due, under-budget rows, oldest first.
	SelectDue(ctx context.Context, now time.Time, limit int) ([]*model.EmailQueueItem, error)
	MarkSent(ctx context.Context, params MarkEmailSentParams) error
	// RecordFailure returns the item's new status after the attempt is counted.
	RecordFailure(ctx context.Context, params RecordEmailFailureParams) (model.EmailStatus, error)
	// ResetForRetry sets attempts=0, status=pending for one item.
	ResetForRetry(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q model.QueueItemQuery) ([]*model.EmailQueueItem, error)
	Status(ctx context.Context, now time.Time) (*model.QueueStatus, error)
	// DeleteTerminalOlderThan removes sent/failed rows older than cutoff,
	// returning the number deleted. Used by the retention job.
	DeleteTerminalOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// AppendEmailLogParams carries one audit row.
type AppendEmailLogParams struct {
	QueueItemID       string
	UserID            *string
	EmailType         model.EmailType
	RecipientEmail    string
	Status            string
	ProviderMessageID *string
	ErrorMessage      *string
	SentAt            *time.Time
}

// EmailLogRepository appends delivery audit rows.
type EmailLogRepository interface {
	Append(ctx context.Context, params AppendEmailLogParams) error
}

// EmailPreferencesRepository reads and writes per-recipient opt-ins.
type EmailPreferencesRepository interface {
	// GetByUserID returns (nil, nil) when no row exists for the user.
	GetByUserID(ctx context.Context, userID string) (*model.EmailPreferences, error)
	Upsert(ctx context.Context, prefs *model.EmailPreferences) error
}

// DigestRecipient is one eligible recipient of a digest email.
type DigestRecipient struct {
	UserID     string
	Email      string
	ExternalID *string
}

// UserRepository resolves identities and queries recipient cohorts.
type UserRepository interface {
	// ResolveExternalID translates a foreign auth-provider id into the
	// internal UUID. Returns NotFound when no mapping exists.
	ResolveExternalID(ctx context.Context, externalID string) (string, error)
	// ListDigestRecipients returns users opted into the given category.
	ListDigestRecipients(ctx context.Context, category model.PreferenceCategory) ([]DigestRecipient, error)
	// ListDormantSince returns users whose last activity predates the cutoff.
	ListDormantSince(ctx context.Context, cutoff time.Time) ([]DigestRecipient, error)
}

// Discovery is one stumbleable page, as featured in digest emails.
type Discovery struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// DiscoveryRepository reads digest content from the discovery index.
type DiscoveryRepository interface {
	// ListTrending returns the most-stumbled discoveries since the cutoff.
	ListTrending(ctx context.Context, since time.Time, limit int) ([]Discovery, error)
	// ListNewSince returns recently indexed discoveries, newest first.
	ListNewSince(ctx context.Context, since time.Time, limit int) ([]Discovery, error)
}

// TrustSubject identifies one scoring target plus its raw component inputs.
type TrustSubject struct {
	Scope      model.TrustScope
	SubjectKey string
	Components model.TrustComponents
}

// TrustRepository persists computed trust scores and feeds the recompute job.
type TrustRepository interface {
	// ListSubjects returns every scoring target with fresh component inputs.
	ListSubjects(ctx context.Context) ([]TrustSubject, error)
	// SubjectByKey returns one scoring target, or NotFound.
	SubjectByKey(ctx context.Context, scope model.TrustScope, key string) (*TrustSubject, error)
	// UpsertScore writes the recomputed score.
	UpsertScore(ctx context.Context, score *model.TrustScore) (*model.TrustScore, error)
	// GetScore returns the stored score, or NotFound.
	GetScore(ctx context.Context, scope model.TrustScope, key string) (*model.TrustScore, error)
	// SetAdminOverride pins or clears (nil) an explicit admin override.
	SetAdminOverride(ctx context.Context, scope model.TrustScope, key string, override *float64) error
}

// TrustScoreCache is a read-through cache in front of TrustRepository,
// backed by Redis in production.
type TrustScoreCache interface {
	Get(ctx context.Context, scope model.TrustScope, key string) (float64, bool, error)
	Set(ctx context.Context, scope model.TrustScope, key string, score float64) error
	Invalidate(ctx context.Context, scope model.TrustScope, key string) error
}

// SendEmailRequest is the provider-facing send payload.
type SendEmailRequest struct {
	To        string
	Subject   string
	HTMLBody  string
	EmailType model.EmailType
}

// EmailSender delivers one rendered email via the configured provider.
// Implementations return an opaque provider message id on success.
type EmailSender interface {
	Send(ctx context.Context, req SendEmailRequest) (string, error)
}

// TemplateRenderer renders an email type's template with merged data.
type TemplateRenderer interface {
	Render(emailType model.EmailType, data map[string]any) (string, error)
}
