package config

// AuthConfig contains bearer-token verification settings. The issuer is the
// OIDC discovery root of the auth provider (Clerk in production).
type AuthConfig struct {
	IssuerURL string `env:"AUTH_ISSUER_URL" envDefault:""`
	// Audience is the expected aud claim; empty skips the audience check,
	// which Clerk session tokens require.
	Audience string `env:"AUTH_AUDIENCE" envDefault:""`
}
