package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	"github.com/stumbleable/jobs/internal/observability/statsd"
)

// Built-in job names.
const (
	JobWeeklyDigestTrending = "weekly-digest-trending"
	JobWeeklyDigestNew      = "weekly-digest-new"
	JobReEngagement         = "re-engagement"
	JobQueueCleanup         = "queue-cleanup"
	JobTrustScoreRecalc     = "trust-score-recalc"
	JobAnalyticsRollup      = "analytics-rollup"
)

// BuiltinJobs bundles the handlers for the stock recurring jobs and their
// default definitions. All defaults can be overridden at runtime through
// the job_schedules table.
type BuiltinJobs struct {
	queue       *EmailQueueService
	trust       *TrustService
	users       core.UserRepository
	discoveries core.DiscoveryRepository
	schedules   core.JobScheduleRepository
	timeProv    data.TimeProvider
	metrics     statsd.Sink
	logger      *slog.Logger
}

// BuiltinJobsOptions holds the dependencies for creating BuiltinJobs.
type BuiltinJobsOptions struct {
	Queue        *EmailQueueService
	Trust        *TrustService
	Users        core.UserRepository
	Discoveries  core.DiscoveryRepository
	Schedules    core.JobScheduleRepository
	TimeProvider data.TimeProvider
	Metrics      statsd.Sink
	Logger       *slog.Logger
}

// NewBuiltinJobs creates the built-in job set with the given dependencies.
func NewBuiltinJobs(opts BuiltinJobsOptions) *BuiltinJobs {
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &BuiltinJobs{
		queue:       opts.Queue,
		trust:       opts.Trust,
		users:       opts.Users,
		discoveries: opts.Discoveries,
		schedules:   opts.Schedules,
		timeProv:    opts.TimeProvider,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With("component", "builtin_jobs"),
	}
}

// Definitions returns the default registrations for every built-in job.
func (b *BuiltinJobs) Definitions() []model.JobDefinition {
	return []model.JobDefinition{
		{
			Name:           JobWeeklyDigestTrending,
			DisplayName:    "Weekly Trending Digest",
			Description:    "Emails opted-in users the week's most stumbled discoveries.",
			CronExpression: "0 9 * * 1",
			Enabled:        true,
			JobType:        model.JobTypeEmail,
			Config:         json.RawMessage(`{"limit": 5, "window_days": 7}`),
			Handler:        b.WeeklyDigestTrending,
		},
		{
			Name:           JobWeeklyDigestNew,
			DisplayName:    "Weekly New Discoveries Digest",
			Description:    "Emails opted-in users the freshest additions to the index.",
			CronExpression: "0 9 * * 4",
			Enabled:        true,
			JobType:        model.JobTypeEmail,
			Config:         json.RawMessage(`{"limit": 5, "window_days": 7}`),
			Handler:        b.WeeklyDigestNew,
		},
		{
			Name:           JobReEngagement,
			DisplayName:    "Re-engagement Nudge",
			Description:    "Emails users who have not stumbled in a while.",
			CronExpression: "0 10 * * *",
			Enabled:        true,
			JobType:        model.JobTypeEmail,
			Config:         json.RawMessage(`{"dormant_days": 30, "limit": 3, "window_days": 7}`),
			Handler:        b.ReEngagement,
		},
		{
			Name:           JobQueueCleanup,
			DisplayName:    "Email Queue Cleanup",
			Description:    "Removes terminal queue rows past the retention window.",
			CronExpression: "0 3 * * *",
			Enabled:        true,
			JobType:        model.JobTypeCleanup,
			Config:         json.RawMessage(`{"retention_days": 90}`),
			Handler:        b.QueueCleanup,
		},
		{
			Name:           JobTrustScoreRecalc,
			DisplayName:    "Trust Score Recalculation",
			Description:    "Recomputes domain and user trust scores from fresh components.",
			CronExpression: "0 */6 * * *",
			Enabled:        true,
			JobType:        model.JobTypeAnalytics,
			Handler:        b.TrustScoreRecalc,
		},
		{
			Name:           JobAnalyticsRollup,
			DisplayName:    "Analytics Rollup",
			Description:    "Extracts configured metrics from a system snapshot and emits them.",
			CronExpression: "*/15 * * * *",
			Enabled:        true,
			JobType:        model.JobTypeAnalytics,
			Config: json.RawMessage(`{"metrics": {
				"queue_pending": "queue.pending",
				"queue_failed": "queue.failed",
				"jobs_failed_runs": "sum(schedules[].failed_runs)"
			}}`),
			Handler: b.AnalyticsRollup,
		},
	}
}

type digestConfig struct {
	Limit       int `json:"limit"`
	WindowDays  int `json:"window_days"`
	DormantDays int `json:"dormant_days"`
}

func (b *BuiltinJobs) digestConfig(raw json.RawMessage) digestConfig {
	cfg := digestConfig{Limit: 5, WindowDays: 7, DormantDays: 30}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			b.logger.Warn("invalid job config, using defaults", "err", err)
		}
	}
	return cfg
}

// WeeklyDigestTrending enqueues the trending digest for every opted-in user.
func (b *BuiltinJobs) WeeklyDigestTrending(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	cfg := b.digestConfig(jc.Config)
	since := b.timeProv.Now().UTC().AddDate(0, 0, -cfg.WindowDays)

	discoveries, err := b.discoveries.ListTrending(ctx, since, cfg.Limit)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("list trending discoveries: %w", err)
	}
	return b.enqueueDigest(ctx, digestParams{
		emailType: model.EmailTypeWeeklyTrending,
		category:  model.CategoryWeeklyTrending,
		content:   discoveries,
	})
}

// WeeklyDigestNew enqueues the new-discoveries digest for every opted-in user.
func (b *BuiltinJobs) WeeklyDigestNew(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	cfg := b.digestConfig(jc.Config)
	since := b.timeProv.Now().UTC().AddDate(0, 0, -cfg.WindowDays)

	discoveries, err := b.discoveries.ListNewSince(ctx, since, cfg.Limit)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("list new discoveries: %w", err)
	}
	return b.enqueueDigest(ctx, digestParams{
		emailType: model.EmailTypeWeeklyNew,
		category:  model.CategoryWeeklyNew,
		content:   discoveries,
	})
}

type digestParams struct {
	emailType model.EmailType
	category  model.PreferenceCategory
	content   []core.Discovery
}

// enqueueDigest fans one digest out to its recipient cohort. An empty
// content window produces a successful no-op run rather than empty emails.
func (b *BuiltinJobs) enqueueDigest(ctx context.Context, params digestParams) (model.JobResult, error) {
	if len(params.content) == 0 {
		b.logger.InfoContext(ctx, "no digest content this window", "email_type", params.emailType)
		return model.JobResult{Success: true}, nil
	}

	recipients, err := b.users.ListDigestRecipients(ctx, params.category)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("list digest recipients: %w", err)
	}

	templateData, err := json.Marshal(map[string]any{"Discoveries": params.content})
	if err != nil {
		return model.JobResult{}, fmt.Errorf("marshal digest data: %w", err)
	}

	result := model.JobResult{Success: true}
	for _, recipient := range recipients {
		result.ItemsProcessed++
		userID := recipient.UserID
		_, enqErr := b.queue.Enqueue(ctx, model.EnqueueEmailRequest{
			UserID:         &userID,
			EmailType:      params.emailType,
			RecipientEmail: recipient.Email,
			TemplateData:   templateData,
		})
		if enqErr != nil {
			result.ItemsFailed++
			b.logger.ErrorContext(ctx, "failed to enqueue digest email",
				"email_type", params.emailType, "user_id", recipient.UserID, "err", enqErr)
			continue
		}
		result.ItemsSucceeded++
	}

	if result.ItemsFailed > 0 {
		result.Success = false
		msg := fmt.Sprintf("%d of %d digest emails failed to enqueue",
			result.ItemsFailed, result.ItemsProcessed)
		result.Error = &msg
	}
	return result, nil
}

// ReEngagement enqueues a nudge for users dormant past the configured
// threshold. Preference gating happens at delivery time, so dormant users
// who opted out are skipped there instead of silently excluded here.
func (b *BuiltinJobs) ReEngagement(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	cfg := b.digestConfig(jc.Config)
	now := b.timeProv.Now().UTC()

	dormant, err := b.users.ListDormantSince(ctx, now.AddDate(0, 0, -cfg.DormantDays))
	if err != nil {
		return model.JobResult{}, fmt.Errorf("list dormant users: %w", err)
	}

	discoveries, err := b.discoveries.ListTrending(ctx, now.AddDate(0, 0, -cfg.WindowDays), cfg.Limit)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("list trending discoveries: %w", err)
	}
	templateData, err := json.Marshal(map[string]any{"Discoveries": discoveries})
	if err != nil {
		return model.JobResult{}, fmt.Errorf("marshal nudge data: %w", err)
	}

	result := model.JobResult{Success: true}
	for _, recipient := range dormant {
		result.ItemsProcessed++
		userID := recipient.UserID
		_, enqErr := b.queue.Enqueue(ctx, model.EnqueueEmailRequest{
			UserID:         &userID,
			EmailType:      model.EmailTypeReEngagement,
			RecipientEmail: recipient.Email,
			TemplateData:   templateData,
		})
		if enqErr != nil {
			result.ItemsFailed++
			b.logger.ErrorContext(ctx, "failed to enqueue re-engagement email",
				"user_id", recipient.UserID, "err", enqErr)
			continue
		}
		result.ItemsSucceeded++
	}

	if result.ItemsFailed > 0 {
		result.Success = false
		msg := fmt.Sprintf("%d of %d nudges failed to enqueue", result.ItemsFailed, result.ItemsProcessed)
		result.Error = &msg
	}
	return result, nil
}

type cleanupConfig struct {
	RetentionDays int `json:"retention_days"`
}

// QueueCleanup deletes terminal queue rows past the retention window.
func (b *BuiltinJobs) QueueCleanup(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	cfg := cleanupConfig{RetentionDays: 90}
	if len(jc.Config) > 0 {
		if err := json.Unmarshal(jc.Config, &cfg); err != nil {
			b.logger.Warn("invalid cleanup config, using defaults", "err", err)
		}
	}

	cutoff := b.timeProv.Now().UTC().AddDate(0, 0, -cfg.RetentionDays)
	deleted, err := b.queue.PurgeTerminal(ctx, cutoff)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("purge terminal queue rows: %w", err)
	}

	metadata, _ := json.Marshal(map[string]any{"deleted": deleted, "cutoff": cutoff})
	return model.JobResult{
		Success:        true,
		ItemsProcessed: deleted,
		ItemsSucceeded: deleted,
		Metadata:       metadata,
	}, nil
}

// TrustScoreRecalc refreshes every trust score from its raw components.
// Individual subject failures produce a completed-but-unsuccessful run.
func (b *BuiltinJobs) TrustScoreRecalc(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	processed, failed, err := b.trust.RecomputeAll(ctx)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("recompute trust scores: %w", err)
	}

	result := model.JobResult{
		Success:        failed == 0,
		ItemsProcessed: processed,
		ItemsSucceeded: processed - failed,
		ItemsFailed:    failed,
	}
	if failed > 0 {
		msg := fmt.Sprintf("%d of %d subjects failed to recompute", failed, processed)
		result.Error = &msg
	}
	return result, nil
}

type rollupConfig struct {
	Metrics map[string]string `json:"metrics"`
}

// AnalyticsRollup builds a snapshot of queue and schedule state, extracts
// the configured JMESPath expressions from it, and emits each value as a
// gauge. Unresolvable or non-numeric expressions count as failed items.
func (b *BuiltinJobs) AnalyticsRollup(ctx context.Context, jc model.JobContext) (model.JobResult, error) {
	var cfg rollupConfig
	if len(jc.Config) > 0 {
		if err := json.Unmarshal(jc.Config, &cfg); err != nil {
			return model.JobResult{}, fmt.Errorf("decode rollup config: %w", err)
		}
	}
	if len(cfg.Metrics) == 0 {
		return model.JobResult{Success: true}, nil
	}

	snapshot, err := b.buildSnapshot(ctx)
	if err != nil {
		return model.JobResult{}, err
	}

	values := make(map[string]float64, len(cfg.Metrics))
	result := model.JobResult{Success: true}
	for name, expr := range cfg.Metrics {
		result.ItemsProcessed++
		value, extractErr := extractMetric(snapshot, expr)
		if extractErr != nil {
			result.ItemsFailed++
			b.logger.WarnContext(ctx, "metric extraction failed",
				"metric", name, "expr", expr, "err", extractErr)
			continue
		}
		result.ItemsSucceeded++
		values[name] = value
		if b.metrics != nil {
			b.metrics.Gauge("rollup."+name, value, nil)
		}
	}

	if result.ItemsFailed > 0 {
		result.Success = false
		msg := fmt.Sprintf("%d of %d metrics failed to extract", result.ItemsFailed, result.ItemsProcessed)
		result.Error = &msg
	}
	if metadata, marshalErr := json.Marshal(values); marshalErr == nil {
		result.Metadata = metadata
	}
	return result, nil
}

// buildSnapshot assembles the JSON document metric expressions run against.
// It round-trips through encoding/json so JMESPath sees plain maps.
func (b *BuiltinJobs) buildSnapshot(ctx context.Context) (any, error) {
	status, err := b.queue.QueueStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue status: %w", err)
	}
	schedules, err := b.schedules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	raw, err := json.Marshal(map[string]any{
		"queue":     status,
		"schedules": schedules,
		"taken_at":  b.timeProv.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var snapshot any
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func extractMetric(snapshot any, expr string) (float64, error) {
	value, err := jmespath.Search(expr, snapshot)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("expression %q matched nothing", expr)
	default:
		return 0, fmt.Errorf("expression %q produced non-numeric %T", expr, value)
	}
}
