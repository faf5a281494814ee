package model

import (
	"time"
)

// TrustTier buckets a trust score into a moderation policy band.
type TrustTier string

// ModerationDecision is the automated action a trust score authorizes.
type ModerationDecision string

const (
	// TierVerified scores auto-approve submissions.
	TierVerified TrustTier = "verified"
	// TierTrusted scores approve with light sampling.
	TierTrusted TrustTier = "trusted"
	// TierStandard scores go through normal review.
	TierStandard TrustTier = "standard"
	// TierProbation scores require review for every submission.
	TierProbation TrustTier = "probation"
	// TierBlocked scores auto-reject submissions.
	TierBlocked TrustTier = "blocked"

	// DecisionApprove auto-approves the submission.
	DecisionApprove ModerationDecision = "approve"
	// DecisionReview routes the submission to human moderation.
	DecisionReview ModerationDecision = "review"
	// DecisionReject auto-rejects the submission.
	DecisionReject ModerationDecision = "reject"
)

// Tier thresholds are fixed policy constants.
const (
	TierVerifiedMin  = 90.0
	TierTrustedMin   = 70.0
	TierStandardMin  = 40.0
	TierProbationMin = 20.0
)

// TrustScope distinguishes domain-scoped from user-scoped scores.
type TrustScope string

const (
	// ScopeDomain scores a content domain (registrable eTLD+1).
	ScopeDomain TrustScope = "domain"
	// ScopeUser scores a submitting user.
	ScopeUser TrustScope = "user"
)

// TrustComponents are the inputs to the trust scoring function.
type TrustComponents struct {
	AgeDays         int     `json:"age_days"`
	ReputationScore float64 `json:"reputation_score"`
	SubmissionCount int     `json:"submission_count"`
	ApprovalRate    float64 `json:"approval_rate"`
	ReportCount     int     `json:"report_count"`
	PositiveRatio   float64 `json:"positive_ratio"`
}

// TrustScore is a derived, periodically recomputed reputation metric in [0,100].
type TrustScore struct {
	ID            string          `json:"id"             db:"id"`
	Scope         TrustScope      `json:"scope"          db:"scope"`
	SubjectKey    string          `json:"subject_key"    db:"subject_key"`
	Score         float64         `json:"score"          db:"score"`
	Components    TrustComponents `json:"components"     db:"components"`
	AdminOverride *float64        `json:"admin_override,omitempty" db:"admin_override"`
	ComputedAt    time.Time       `json:"computed_at"    db:"computed_at"`
	UpdatedAt     time.Time       `json:"updated_at"     db:"updated_at"`
}

// ClampScore clamps a raw score into [0,100].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Effective returns the admin override when set, otherwise the computed score.
func (t *TrustScore) Effective() float64 {
	if t.AdminOverride != nil {
		return ClampScore(*t.AdminOverride)
	}
	return t.Score
}

// TierFor maps a score to its policy tier.
func TierFor(score float64) TrustTier {
	switch {
	case score >= TierVerifiedMin:
		return TierVerified
	case score >= TierTrustedMin:
		return TierTrusted
	case score >= TierStandardMin:
		return TierStandard
	case score >= TierProbationMin:
		return TierProbation
	default:
		return TierBlocked
	}
}

// AutoDecision gates automated moderation on the score's tier.
func AutoDecision(score float64) ModerationDecision {
	switch TierFor(score) {
	case TierVerified:
		return DecisionApprove
	case TierBlocked:
		return DecisionReject
	default:
		return DecisionReview
	}
}
