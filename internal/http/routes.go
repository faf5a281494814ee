package httpx

import (
	"log/slog"
	"net/http"
)

// RouterOptions holds the handlers and middleware dependencies for the API.
type RouterOptions struct {
	Jobs        *JobsHandler
	Scheduler   *SchedulerHandler
	Queue       *QueueHandler
	Preferences *PreferencesHandler
	Trust       *TrustHandler
	Health      *HealthHandler
	Verifier    TokenVerifier
	Logger      *slog.Logger
}

// NewRouter assembles the API mux. Every route except /health sits behind
// bearer auth; /api/admin/* additionally requires the admin role.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	authed := RequireAuth(opts.Verifier)
	admin := func(h http.Handler) http.Handler {
		return authed(RequireRole("admin")(h))
	}
	handle := func(mux *http.ServeMux, pattern string, wrap func(http.Handler) http.Handler, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", opts.Health.Health)

	handle(mux, "POST /api/jobs/trigger", authed, opts.Jobs.Trigger)
	handle(mux, "GET /api/jobs/{jobId}", authed, opts.Jobs.GetExecution)
	handle(mux, "GET /api/jobs", authed, opts.Jobs.ListExecutions)

	handle(mux, "GET /api/admin/scheduler/jobs", admin, opts.Scheduler.ListJobs)
	handle(mux, "POST /api/admin/scheduler/jobs/{jobName}/trigger", admin, opts.Scheduler.Trigger)
	handle(mux, "POST /api/admin/scheduler/jobs/{jobName}/enable", admin, opts.Scheduler.Enable)
	handle(mux, "POST /api/admin/scheduler/jobs/{jobName}/disable", admin, opts.Scheduler.Disable)
	handle(mux, "PUT /api/admin/scheduler/jobs/{jobName}/cron", admin, opts.Scheduler.UpdateCron)
	handle(mux, "GET /api/admin/scheduler/jobs/{jobName}/history", admin, opts.Scheduler.History)
	handle(mux, "GET /api/admin/scheduler/jobs/{jobName}/stats", admin, opts.Scheduler.Stats)

	handle(mux, "POST /api/send", authed, opts.Queue.Send)
	handle(mux, "GET /api/queue/status", authed, opts.Queue.Status)
	handle(mux, "GET /api/queue/items", authed, opts.Queue.Items)
	handle(mux, "POST /api/queue/retry/{id}", authed, opts.Queue.Retry)
	handle(mux, "DELETE /api/queue/{id}", authed, opts.Queue.Delete)

	handle(mux, "GET /api/preferences/{userId}", authed, opts.Preferences.Get)
	handle(mux, "PUT /api/preferences/{userId}", authed, opts.Preferences.Update)
	handle(mux, "POST /api/preferences/{userId}/unsubscribe", authed, opts.Preferences.Unsubscribe)

	handle(mux, "GET /api/trust/{scope}/{key}", authed, opts.Trust.Get)
	handle(mux, "GET /api/trust/{scope}/{key}/decision", authed, opts.Trust.Decision)
	handle(mux, "PUT /api/admin/trust/{scope}/{key}/override", admin, opts.Trust.SetOverride)

	var handler http.Handler = mux
	handler = Logging(opts.Logger)(handler)
	handler = Recover(opts.Logger)(handler)
	return handler
}
