package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/mocks"
)

type trustFixture struct {
	svc   *TrustService
	repo  *mocks.MockTrustRepository
	cache *mocks.MockTrustScoreCache
}

func newTrustFixture(t *testing.T) *trustFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTrustRepository(ctrl)
	cache := mocks.NewMockTrustScoreCache(ctrl)
	svc := NewTrustService(TrustServiceOptions{
		Repo:         repo,
		Cache:        cache,
		TimeProvider: fixedClock(),
	})
	return &trustFixture{svc: svc, repo: repo, cache: cache}
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name       string
		components model.TrustComponents
		want       float64
	}{
		{
			name:       "empty subject gets the base score",
			components: model.TrustComponents{},
			want:       10,
		},
		{
			name: "perfect components saturate at 100",
			components: model.TrustComponents{
				AgeDays:         365,
				ReputationScore: 100,
				SubmissionCount: 50,
				ApprovalRate:    1,
				PositiveRatio:   1,
			},
			want: 100,
		},
		{
			name: "heavy reporting clamps to zero",
			components: model.TrustComponents{
				ReportCount: 10,
			},
			want: 0,
		},
		{
			name: "age contribution caps at one year",
			components: model.TrustComponents{
				AgeDays: 3650,
			},
			want: 20,
		},
		{
			name: "volume contribution caps at fifty submissions",
			components: model.TrustComponents{
				SubmissionCount: 500,
			},
			want: 20,
		},
		{
			name: "mixed components",
			components: model.TrustComponents{
				AgeDays:         365,
				ReputationScore: 50,
				SubmissionCount: 25,
				ApprovalRate:    0.5,
				ReportCount:     1,
				PositiveRatio:   0.8,
			},
			// 10 + 15 + 16 + 10 + 10 + 5 - 5
			want: 61,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeScore(tt.components), 0.0001)
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare host", raw: "example.com", want: "example.com"},
		{name: "subdomain collapses to registrable", raw: "blog.example.com", want: "example.com"},
		{name: "full url", raw: "https://blog.example.co.uk/post/42?ref=x", want: "example.co.uk"},
		{name: "host with port", raw: "EXAMPLE.com:8080", want: "example.com"},
		{name: "scheme-less url", raw: "example.com/some/path", want: "example.com"},
		{name: "uppercase normalized", raw: "  WWW.Example.COM  ", want: "example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: "   ", wantErr: true},
		{name: "bare tld", raw: "com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDomain(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveScore(t *testing.T) {
	t.Run("cache hit skips storage", func(t *testing.T) {
		f := newTrustFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), model.ScopeDomain, "example.com").Return(85.0, true, nil)
		// No repo expectation: a hit never reads storage.

		score, err := f.svc.EffectiveScore(context.Background(), model.ScopeDomain, "blog.example.com")
		require.NoError(t, err)
		assert.Equal(t, 85.0, score)
	})

	t.Run("cache miss reads storage and backfills", func(t *testing.T) {
		f := newTrustFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), model.ScopeDomain, "example.com").Return(0.0, false, nil)
		f.repo.EXPECT().GetScore(gomock.Any(), model.ScopeDomain, "example.com").
			Return(&model.TrustScore{Scope: model.ScopeDomain, SubjectKey: "example.com", Score: 72}, nil)
		f.cache.EXPECT().Set(gomock.Any(), model.ScopeDomain, "example.com", 72.0).Return(nil)

		score, err := f.svc.EffectiveScore(context.Background(), model.ScopeDomain, "example.com")
		require.NoError(t, err)
		assert.Equal(t, 72.0, score)
	})

	t.Run("cache read failure falls through to storage", func(t *testing.T) {
		f := newTrustFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), model.ScopeUser, "user-1").
			Return(0.0, false, errors.New("redis down"))
		f.repo.EXPECT().GetScore(gomock.Any(), model.ScopeUser, "user-1").
			Return(&model.TrustScore{Scope: model.ScopeUser, SubjectKey: "user-1", Score: 40}, nil)
		f.cache.EXPECT().Set(gomock.Any(), model.ScopeUser, "user-1", 40.0).Return(errors.New("redis down"))

		score, err := f.svc.EffectiveScore(context.Background(), model.ScopeUser, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 40.0, score)
	})

	t.Run("override wins over computed score", func(t *testing.T) {
		f := newTrustFixture(t)
		override := 95.0
		f.cache.EXPECT().Get(gomock.Any(), model.ScopeUser, "user-1").Return(0.0, false, nil)
		f.repo.EXPECT().GetScore(gomock.Any(), model.ScopeUser, "user-1").
			Return(&model.TrustScore{Score: 10, AdminOverride: &override}, nil)
		f.cache.EXPECT().Set(gomock.Any(), model.ScopeUser, "user-1", 95.0).Return(nil)

		score, err := f.svc.EffectiveScore(context.Background(), model.ScopeUser, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 95.0, score)
	})

	t.Run("empty user key rejected", func(t *testing.T) {
		f := newTrustFixture(t)
		_, err := f.svc.EffectiveScore(context.Background(), model.ScopeUser, "  ")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestDecisionFor(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  model.ModerationDecision
	}{
		{name: "verified auto-approves", score: 95, want: model.DecisionApprove},
		{name: "trusted routes to review", score: 80, want: model.DecisionReview},
		{name: "probation routes to review", score: 25, want: model.DecisionReview},
		{name: "blocked auto-rejects", score: 5, want: model.DecisionReject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTrustFixture(t)
			f.cache.EXPECT().Get(gomock.Any(), model.ScopeDomain, "example.com").
				Return(tt.score, true, nil)

			decision, err := f.svc.DecisionFor(context.Background(), model.ScopeDomain, "example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, decision)
		})
	}

	t.Run("unscored subject defaults to review", func(t *testing.T) {
		f := newTrustFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), model.ScopeDomain, "example.com").Return(0.0, false, nil)
		f.repo.EXPECT().GetScore(gomock.Any(), model.ScopeDomain, "example.com").
			Return(nil, apperrors.NotFound("no score"))

		decision, err := f.svc.DecisionFor(context.Background(), model.ScopeDomain, "example.com")
		require.NoError(t, err)
		assert.Equal(t, model.DecisionReview, decision)
	})
}

func TestRecomputeSubject(t *testing.T) {
	f := newTrustFixture(t)
	subject := &core.TrustSubject{
		Scope:      model.ScopeDomain,
		SubjectKey: "example.com",
		Components: model.TrustComponents{ApprovalRate: 1, PositiveRatio: 1},
	}

	f.repo.EXPECT().SubjectByKey(gomock.Any(), model.ScopeDomain, "example.com").Return(subject, nil)
	f.repo.EXPECT().UpsertScore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, score *model.TrustScore) (*model.TrustScore, error) {
			assert.Equal(t, "example.com", score.SubjectKey)
			assert.InDelta(t, 60, score.Score, 0.0001) // 10 + 30 + 20
			return score, nil
		})
	f.cache.EXPECT().Set(gomock.Any(), model.ScopeDomain, "example.com", gomock.Any()).Return(nil)

	stored, err := f.svc.RecomputeSubject(context.Background(), model.ScopeDomain, "blog.example.com")
	require.NoError(t, err)
	assert.InDelta(t, 60, stored.Score, 0.0001)
}

func TestRecomputeAll(t *testing.T) {
	f := newTrustFixture(t)
	subjects := []core.TrustSubject{
		{Scope: model.ScopeDomain, SubjectKey: "good.com"},
		{Scope: model.ScopeDomain, SubjectKey: "bad.com"},
		{Scope: model.ScopeUser, SubjectKey: "user-1"},
	}

	f.repo.EXPECT().ListSubjects(gomock.Any()).Return(subjects, nil)
	f.repo.EXPECT().UpsertScore(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, score *model.TrustScore) (*model.TrustScore, error) {
			if score.SubjectKey == "bad.com" {
				return nil, errors.New("constraint violation")
			}
			return score, nil
		}).Times(3)
	f.cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	processed, failed, err := f.svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	assert.Equal(t, 1, failed)
}

func TestSetAdminOverride(t *testing.T) {
	t.Run("out of range rejected", func(t *testing.T) {
		f := newTrustFixture(t)
		override := 150.0
		err := f.svc.SetAdminOverride(context.Background(), model.ScopeUser, "user-1", &override)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "override", apperrors.GetField(err))
	})

	t.Run("valid override persists and invalidates cache", func(t *testing.T) {
		f := newTrustFixture(t)
		override := 95.0
		f.repo.EXPECT().SetAdminOverride(gomock.Any(), model.ScopeDomain, "example.com", &override).Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), model.ScopeDomain, "example.com").Return(nil)

		err := f.svc.SetAdminOverride(context.Background(), model.ScopeDomain, "https://example.com/page", &override)
		require.NoError(t, err)
	})

	t.Run("nil clears the override", func(t *testing.T) {
		f := newTrustFixture(t)
		f.repo.EXPECT().SetAdminOverride(gomock.Any(), model.ScopeUser, "user-1", nil).Return(nil)
		f.cache.EXPECT().Invalidate(gomock.Any(), model.ScopeUser, "user-1").Return(nil)

		require.NoError(t, f.svc.SetAdminOverride(context.Background(), model.ScopeUser, "user-1", nil))
	})
}

func TestGetScore_BypassesCache(t *testing.T) {
	f := newTrustFixture(t)
	// No cache expectations: GetScore always reads storage.
	f.repo.EXPECT().GetScore(gomock.Any(), model.ScopeDomain, "example.com").
		Return(&model.TrustScore{Scope: model.ScopeDomain, SubjectKey: "example.com", Score: 55}, nil)

	score, err := f.svc.GetScore(context.Background(), model.ScopeDomain, "example.com")
	require.NoError(t, err)
	assert.Equal(t, 55.0, score.Score)
}
