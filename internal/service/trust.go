package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// Trust score component weights. The computed score starts from a small
// base so brand-new subjects land in the standard band only after earning
// approvals, and reports pull hard in the other direction.
const (
	trustBase            = 10.0
	trustApprovalWeight  = 30.0
	trustPositiveWeight  = 20.0
	trustReputationScale = 0.2 // reputation input is 0..100
	trustAgeWeight       = 10.0
	trustAgeCapDays      = 365
	trustVolumeWeight    = 10.0
	trustVolumeCap       = 50
	trustReportPenalty   = 5.0
)

// TrustService computes and serves trust scores for domains and users.
// Reads go through the Redis cache; the recompute job refreshes every
// subject from its raw components.
type TrustService struct {
	repo     core.TrustRepository
	cache    core.TrustScoreCache
	timeProv data.TimeProvider
	logger   *slog.Logger
}

// TrustServiceOptions holds the dependencies for creating a TrustService.
type TrustServiceOptions struct {
	Repo         core.TrustRepository
	Cache        core.TrustScoreCache
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
}

// NewTrustService creates a new TrustService with the given dependencies.
func NewTrustService(opts TrustServiceOptions) *TrustService {
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TrustService{
		repo:     opts.Repo,
		cache:    opts.Cache,
		timeProv: opts.TimeProvider,
		logger:   opts.Logger.With("component", "trust"),
	}
}

// ComputeScore derives a clamped [0,100] score from raw components.
func ComputeScore(c model.TrustComponents) float64 {
	ageDays := float64(c.AgeDays)
	if ageDays > trustAgeCapDays {
		ageDays = trustAgeCapDays
	}
	volume := float64(c.SubmissionCount)
	if volume > trustVolumeCap {
		volume = trustVolumeCap
	}

	raw := trustBase +
		trustApprovalWeight*c.ApprovalRate +
		trustPositiveWeight*c.PositiveRatio +
		trustReputationScale*c.ReputationScore +
		trustAgeWeight*(ageDays/trustAgeCapDays) +
		trustVolumeWeight*(volume/trustVolumeCap) -
		trustReportPenalty*float64(c.ReportCount)

	return model.ClampScore(raw)
}

// NormalizeDomain reduces a raw URL or hostname to its registrable domain
// (eTLD+1), which is the subject key for domain-scoped scores.
func NormalizeDomain(raw string) (string, error) {
	host := strings.TrimSpace(strings.ToLower(raw))
	if host == "" {
		return "", apperrors.Validation("domain is required")
	}
	if strings.Contains(host, "/") || strings.Contains(host, ":") {
		parsed, err := url.Parse(host)
		if err != nil || parsed.Hostname() == "" {
			// Bare host with a port, or scheme-less URL.
			parsed, err = url.Parse("https://" + host)
			if err != nil || parsed.Hostname() == "" {
				return "", apperrors.Validationf("cannot extract host from %q", raw)
			}
		}
		host = parsed.Hostname()
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", apperrors.Validationf("no registrable domain in %q: %v", raw, err)
	}
	return registrable, nil
}

// EffectiveScore returns the effective score for a subject, consulting the
// cache before storage. Domain keys are normalized to eTLD+1 first.
func (s *TrustService) EffectiveScore(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (float64, error) {
	key, err := s.normalizeKey(scope, key)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if score, ok, cacheErr := s.cache.Get(ctx, scope, key); cacheErr == nil && ok {
			return score, nil
		} else if cacheErr != nil {
			s.logger.WarnContext(ctx, "trust cache read failed", "err", cacheErr)
		}
	}

	stored, err := s.repo.GetScore(ctx, scope, key)
	if err != nil {
		return 0, err
	}
	effective := stored.Effective()
	s.cacheSet(ctx, scope, key, effective)
	return effective, nil
}

// GetScore returns the full stored score row, bypassing the cache.
func (s *TrustService) GetScore(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*model.TrustScore, error) {
	key, err := s.normalizeKey(scope, key)
	if err != nil {
		return nil, err
	}
	return s.repo.GetScore(ctx, scope, key)
}

// DecisionFor maps a subject's effective score to the automated moderation
// outcome: auto-approve at the verified tier, auto-reject when blocked,
// human review in between. An unscored subject gets review.
func (s *TrustService) DecisionFor(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (model.ModerationDecision, error) {
	score, err := s.EffectiveScore(ctx, scope, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return model.DecisionReview, nil
		}
		return "", err
	}
	return model.AutoDecision(score), nil
}

// RecomputeSubject recomputes and stores one subject's score from its
// current components.
func (s *TrustService) RecomputeSubject(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*model.TrustScore, error) {
	key, err := s.normalizeKey(scope, key)
	if err != nil {
		return nil, err
	}
	subject, err := s.repo.SubjectByKey(ctx, scope, key)
	if err != nil {
		return nil, err
	}
	return s.storeComputed(ctx, *subject)
}

// RecordReport recomputes a subject immediately after a report event, so
// the moderation gate sees the penalty before the next scheduled sweep.
func (s *TrustService) RecordReport(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*model.TrustScore, error) {
	return s.RecomputeSubject(ctx, scope, key)
}

// RecordApproval recomputes a subject immediately after an approval event.
func (s *TrustService) RecordApproval(
	ctx context.Context,
	scope model.TrustScope,
	key string,
) (*model.TrustScore, error) {
	return s.RecomputeSubject(ctx, scope, key)
}

// RecomputeAll refreshes every subject's score. Returns counts of subjects
// processed and failed; individual failures are logged and skipped so one
// bad subject never aborts the sweep.
func (s *TrustService) RecomputeAll(ctx context.Context) (processed, failed int, err error) {
	subjects, err := s.repo.ListSubjects(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, subject := range subjects {
		processed++
		if _, storeErr := s.storeComputed(ctx, subject); storeErr != nil {
			failed++
			s.logger.ErrorContext(ctx, "failed to recompute trust score",
				"scope", subject.Scope, "subject_key", subject.SubjectKey, "err", storeErr)
		}
	}
	return processed, failed, nil
}

func (s *TrustService) storeComputed(
	ctx context.Context,
	subject core.TrustSubject,
) (*model.TrustScore, error) {
	score := ComputeScore(subject.Components)
	stored, err := s.repo.UpsertScore(ctx, &model.TrustScore{
		Scope:      subject.Scope,
		SubjectKey: subject.SubjectKey,
		Score:      score,
		Components: subject.Components,
	})
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, subject.Scope, subject.SubjectKey, stored.Effective())
	return stored, nil
}

// SetAdminOverride pins (or clears, with nil) an explicit score override
// and drops the cached value so the next read sees it.
func (s *TrustService) SetAdminOverride(
	ctx context.Context,
	scope model.TrustScope,
	key string,
	override *float64,
) error {
	key, err := s.normalizeKey(scope, key)
	if err != nil {
		return err
	}
	if override != nil && (*override < 0 || *override > 100) {
		return apperrors.ValidationField("override", "override must be between 0 and 100")
	}

	if err := s.repo.SetAdminOverride(ctx, scope, key, override); err != nil {
		return err
	}
	if s.cache != nil {
		if invErr := s.cache.Invalidate(ctx, scope, key); invErr != nil {
			s.logger.WarnContext(ctx, "trust cache invalidation failed", "err", invErr)
		}
	}
	s.logger.InfoContext(ctx, "admin override set",
		"scope", scope, "subject_key", key, "cleared", override == nil)
	return nil
}

func (s *TrustService) normalizeKey(scope model.TrustScope, key string) (string, error) {
	if scope == model.ScopeDomain {
		return NormalizeDomain(key)
	}
	if strings.TrimSpace(key) == "" {
		return "", apperrors.Validation("subject key is required")
	}
	return key, nil
}

func (s *TrustService) cacheSet(ctx context.Context, scope model.TrustScope, key string, score float64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, scope, key, score); err != nil {
		s.logger.WarnContext(ctx, "trust cache write failed", "err", err)
	}
}
