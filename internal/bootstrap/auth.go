package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stumbleable/jobs/config"
	httpx "github.com/stumbleable/jobs/internal/http"
	"github.com/stumbleable/jobs/internal/service"
)

// AuthDeps contains configuration for building the token verifier.
type AuthDeps struct {
	Auth   config.AuthConfig
	IsDev  bool
	Logger *slog.Logger
}

// BuildTokenVerifier creates the bearer-token verifier. With an issuer
// configured it performs OIDC discovery; in dev mode without an issuer it
// falls back to a permissive verifier that grants every request the admin
// role. Config validation rejects the no-issuer case outside dev.
func BuildTokenVerifier(ctx context.Context, deps AuthDeps) (httpx.TokenVerifier, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if deps.Auth.IssuerURL != "" {
		return service.NewTokenVerifier(ctx, service.TokenVerifierOptions{
			IssuerURL: deps.Auth.IssuerURL,
			Audience:  deps.Auth.Audience,
			Logger:    logger,
		})
	}

	if !deps.IsDev {
		return nil, errors.New("auth issuer is required outside dev mode")
	}

	logger.WarnContext(ctx, "auth issuer not configured; using dev verifier that accepts any token")
	return devVerifier{}, nil
}

// devVerifier accepts any bearer token and reports an admin principal.
// Only reachable in dev mode.
type devVerifier struct{}

func (devVerifier) Verify(context.Context, string) (*service.Principal, error) {
	return &service.Principal{
		Subject: "dev-user",
		Email:   "dev@localhost",
		Role:    "admin",
	}, nil
}
