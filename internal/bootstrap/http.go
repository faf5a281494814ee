package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stumbleable/jobs/config"
	httpx "github.com/stumbleable/jobs/internal/http"
)

// HTTPServerDeps contains configuration for the HTTP server.
type HTTPServerDeps struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Logger   *slog.Logger
}

// buildHTTPHandler assembles the router with handlers backed by the
// service container.
func buildHTTPHandler(deps *HTTPServerDeps) http.Handler {
	svcs := deps.Services
	return httpx.NewRouter(httpx.RouterOptions{
		Jobs:        httpx.NewJobsHandler(svcs.Registry, svcs.Ledger),
		Scheduler:   httpx.NewSchedulerHandler(svcs.Registry, svcs.Ledger),
		Queue:       httpx.NewQueueHandler(svcs.Queue),
		Preferences: httpx.NewPreferencesHandler(svcs.Preferences),
		Trust:       httpx.NewTrustHandler(svcs.Trust),
		Health:      httpx.NewHealthHandler(deps.DB),
		Verifier:    svcs.Verifier,
		Logger:      deps.Logger,
	})
}

// RunHTTPServer serves the API until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func RunHTTPServer(ctx context.Context, deps *HTTPServerDeps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpCfg := deps.Config.HTTP

	server := &http.Server{
		Addr:              httpCfg.Addr,
		Handler:           buildHTTPHandler(deps),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
