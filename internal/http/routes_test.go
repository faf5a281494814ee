package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/mocks"
	"github.com/stumbleable/jobs/internal/service"
)

// stubVerifier maps bearer tokens to principals for middleware tests.
type stubVerifier struct {
	principals map[string]*service.Principal
}

func (v *stubVerifier) Verify(_ context.Context, rawToken string) (*service.Principal, error) {
	if p, ok := v.principals[rawToken]; ok {
		return p, nil
	}
	return nil, errors.New("unknown token")
}

type apiFixture struct {
	router    http.Handler
	ledger    *mocks.MockJobExecutionRepository
	schedules *mocks.MockJobScheduleRepository
	queueRepo *mocks.MockEmailQueueRepository
	prefsRepo *mocks.MockEmailPreferencesRepository
	trustRepo *mocks.MockTrustRepository
	registry  *service.RegistryService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &apiFixture{
		ledger:    mocks.NewMockJobExecutionRepository(ctrl),
		schedules: mocks.NewMockJobScheduleRepository(ctrl),
		queueRepo: mocks.NewMockEmailQueueRepository(ctrl),
		prefsRepo: mocks.NewMockEmailPreferencesRepository(ctrl),
		trustRepo: mocks.NewMockTrustRepository(ctrl),
	}

	clock := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	executor := service.NewExecutorService(service.ExecutorServiceOptions{
		Ledger:       f.ledger,
		Schedules:    f.schedules,
		TimeProvider: clock,
	})
	f.registry = service.NewRegistryService(service.RegistryServiceOptions{
		Executor:     executor,
		Schedules:    f.schedules,
		TimeProvider: clock,
	})
	queue := service.NewEmailQueueService(service.EmailQueueServiceOptions{
		Queue:        f.queueRepo,
		Logs:         mocks.NewMockEmailLogRepository(ctrl),
		Preferences:  f.prefsRepo,
		Users:        mocks.NewMockUserRepository(ctrl),
		Renderer:     mocks.NewMockTemplateRenderer(ctrl),
		Sender:       mocks.NewMockEmailSender(ctrl),
		TimeProvider: clock,
	})
	prefs := service.NewPreferenceService(service.PreferenceServiceOptions{
		Preferences:  f.prefsRepo,
		Users:        mocks.NewMockUserRepository(ctrl),
		TimeProvider: clock,
	})
	trust := service.NewTrustService(service.TrustServiceOptions{
		Repo:         f.trustRepo,
		TimeProvider: clock,
	})

	verifier := &stubVerifier{principals: map[string]*service.Principal{
		"user-token":  {Subject: "user-1", Email: "user@example.com", Role: "user"},
		"admin-token": {Subject: "admin-1", Email: "admin@example.com", Role: "admin"},
	}}

	f.router = NewRouter(RouterOptions{
		Jobs:        NewJobsHandler(f.registry, f.ledger),
		Scheduler:   NewSchedulerHandler(f.registry, f.ledger),
		Queue:       NewQueueHandler(queue),
		Preferences: NewPreferencesHandler(prefs),
		Trust:       NewTrustHandler(trust),
		Health:      NewHealthHandler(nil),
		Verifier:    verifier,
	})
	return f
}

func (f *apiFixture) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthIsUnauthenticated(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing bearer token", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodGet, "/api/queue/status", "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication_required", decodeBody(t, rec)["error"])
	})

	t.Run("unverifiable token", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodGet, "/api/queue/status", "forged", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_token", decodeBody(t, rec)["error"])
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("non-admin rejected from admin surface", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodGet, "/api/admin/scheduler/jobs", "user-token", "")
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient_role", decodeBody(t, rec)["error"])
	})

	t.Run("admin allowed", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodGet, "/api/admin/scheduler/jobs", "admin-token", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestJobsTrigger(t *testing.T) {
	t.Run("unknown job returns 404", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodPost, "/api/jobs/trigger", "user-token",
			`{"jobType": "no-such-job"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodPost, "/api/jobs/trigger", "user-token", `{"jobType": `)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("successful trigger returns ledger id and status", func(t *testing.T) {
		f := newAPIFixture(t)
		require.NoError(t, f.registry.RegisterJob(model.JobDefinition{
			Name:           "digest",
			CronExpression: "0 9 * * 1",
			Enabled:        true,
			JobType:        model.JobTypeEmail,
			Handler: func(context.Context, model.JobContext) (model.JobResult, error) {
				return model.JobResult{Success: true}, nil
			},
		}))

		running := &model.JobExecution{ID: "exec-1", JobName: "digest", Status: model.ExecutionStatusRunning}
		terminal := &model.JobExecution{ID: "exec-1", JobName: "digest", Status: model.ExecutionStatusCompleted}
		f.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params core.CreateExecutionParams) (*model.JobExecution, error) {
				// The authenticated subject is recorded as the trigger actor.
				require.NotNil(t, params.TriggeredByUser)
				assert.Equal(t, "user-1", *params.TriggeredByUser)
				assert.Equal(t, model.TriggeredByManual, params.TriggeredBy)
				return running, nil
			})
		f.ledger.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(true, nil)
		f.ledger.EXPECT().GetByID(gomock.Any(), "exec-1").Return(terminal, nil)
		f.schedules.EXPECT().RecordCompletion(gomock.Any(), gomock.Any()).Return(nil)

		rec := f.request(t, http.MethodPost, "/api/jobs/trigger", "user-token",
			`{"jobType": "digest"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "exec-1", body["jobId"])
		assert.Equal(t, "completed", body["status"])
	})
}

func TestSchedulerTrigger_ConflictWhileRunning(t *testing.T) {
	f := newAPIFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, f.registry.RegisterJob(model.JobDefinition{
		Name:           "slow",
		CronExpression: "0 9 * * 1",
		Enabled:        true,
		JobType:        model.JobTypeCleanup,
		Handler: func(context.Context, model.JobContext) (model.JobResult, error) {
			close(entered)
			<-release
			return model.JobResult{Success: true}, nil
		},
	}))

	f.ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	f.schedules.EXPECT().RecordCompletion(gomock.Any(), gomock.Any()).Return(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.request(t, http.MethodPost, "/api/admin/scheduler/jobs/slow/trigger", "admin-token", "")
	}()

	<-entered
	rec := f.request(t, http.MethodPost, "/api/admin/scheduler/jobs/slow/trigger", "admin-token", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeBody(t, rec)["error"])

	close(release)
	<-done
}

func TestSchedulerUpdateCron(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.registry.RegisterJob(model.JobDefinition{
		Name:           "digest",
		CronExpression: "0 9 * * 1",
		JobType:        model.JobTypeEmail,
		Handler: func(context.Context, model.JobContext) (model.JobResult, error) {
			return model.JobResult{}, nil
		},
	}))

	t.Run("invalid expression returns 400", func(t *testing.T) {
		rec := f.request(t, http.MethodPut, "/api/admin/scheduler/jobs/digest/cron", "admin-token",
			`{"cronExpression": "bogus"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid expression persists", func(t *testing.T) {
		f.schedules.EXPECT().SetCronExpression(gomock.Any(), "digest", "0 18 * * 5").Return(nil)
		rec := f.request(t, http.MethodPut, "/api/admin/scheduler/jobs/digest/cron", "admin-token",
			`{"cronExpression": "0 18 * * 5"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0 18 * * 5", decodeBody(t, rec)["cronExpression"])
	})
}

func TestQueueSend(t *testing.T) {
	t.Run("invalid request returns 400", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodPost, "/api/send", "user-token",
			`{"email_type": "welcome", "recipient_email": "not-an-address"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid request enqueues and returns 201", func(t *testing.T) {
		f := newAPIFixture(t)
		f.queueRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, params core.InsertEmailParams) (*model.EmailQueueItem, error) {
				return &model.EmailQueueItem{
					ID:             "q-1",
					EmailType:      params.EmailType,
					RecipientEmail: params.RecipientEmail,
					Subject:        params.Subject,
					Status:         model.EmailStatusPending,
				}, nil
			})

		rec := f.request(t, http.MethodPost, "/api/send", "user-token",
			`{"email_type": "welcome", "recipient_email": "a@example.com"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "q-1", body["id"])
		assert.Equal(t, "Welcome to Stumbleable!", body["subject"])
	})
}

func TestQueueRetryAndDelete(t *testing.T) {
	t.Run("retry missing item returns 404", func(t *testing.T) {
		f := newAPIFixture(t)
		f.queueRepo.EXPECT().GetByID(gomock.Any(), "missing").
			Return(nil, apperrors.NotFound("no row"))
		rec := f.request(t, http.MethodPost, "/api/queue/retry/missing", "user-token", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("retry non-failed item returns 400", func(t *testing.T) {
		f := newAPIFixture(t)
		f.queueRepo.EXPECT().GetByID(gomock.Any(), "q-1").Return(
			&model.EmailQueueItem{ID: "q-1", Status: model.EmailStatusSent}, nil)
		rec := f.request(t, http.MethodPost, "/api/queue/retry/q-1", "user-token", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete returns 204", func(t *testing.T) {
		f := newAPIFixture(t)
		f.queueRepo.EXPECT().GetByID(gomock.Any(), "q-1").Return(
			&model.EmailQueueItem{ID: "q-1", Status: model.EmailStatusFailed}, nil)
		f.queueRepo.EXPECT().Delete(gomock.Any(), "q-1").Return(nil)
		rec := f.request(t, http.MethodDelete, "/api/queue/q-1", "user-token", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestPreferencesGet(t *testing.T) {
	f := newAPIFixture(t)
	userID := "7d7e9c62-59f8-4f93-9a29-2f1f8f6f3b01"
	f.prefsRepo.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)

	rec := f.request(t, http.MethodGet, "/api/preferences/"+userID, "user-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["welcome_email"])
	assert.Equal(t, false, body["weekly_trending"])
}

func TestTrustEndpoints(t *testing.T) {
	t.Run("unknown scope returns 400", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodGet, "/api/trust/planet/example.com", "user-token", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("score annotated with tier", func(t *testing.T) {
		f := newAPIFixture(t)
		f.trustRepo.EXPECT().GetScore(gomock.Any(), model.ScopeDomain, "example.com").Return(
			&model.TrustScore{Scope: model.ScopeDomain, SubjectKey: "example.com", Score: 92}, nil)

		rec := f.request(t, http.MethodGet, "/api/trust/domain/blog.example.com", "user-token", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, 92.0, body["effective"])
		assert.Equal(t, "verified", body["tier"])
	})

	t.Run("unscored subject decision is review", func(t *testing.T) {
		f := newAPIFixture(t)
		f.trustRepo.EXPECT().GetScore(gomock.Any(), model.ScopeDomain, "example.com").
			Return(nil, apperrors.NotFound("no score"))

		rec := f.request(t, http.MethodGet, "/api/trust/domain/example.com/decision", "user-token", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "review", decodeBody(t, rec)["decision"])
	})

	t.Run("override is admin only", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.request(t, http.MethodPut, "/api/admin/trust/domain/example.com/override",
			"user-token", `{"override": 95}`)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin sets override", func(t *testing.T) {
		f := newAPIFixture(t)
		f.trustRepo.EXPECT().SetAdminOverride(gomock.Any(), model.ScopeDomain, "example.com", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ model.TrustScope, _ string, override *float64) error {
				require.NotNil(t, override)
				assert.Equal(t, 95.0, *override)
				return nil
			})

		rec := f.request(t, http.MethodPut, "/api/admin/trust/domain/example.com/override",
			"admin-token", `{"override": 95}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPanicRecovery(t *testing.T) {
	f := newAPIFixture(t)
	f.queueRepo.EXPECT().Status(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, time.Time) (*model.QueueStatus, error) {
			panic("handler bug")
		})

	rec := f.request(t, http.MethodGet, "/api/queue/status", "user-token", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
