package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/stumbleable/jobs/internal/core"
)

// ResolveUserID normalizes a caller-supplied user id to the internal UUID.
// External auth-provider ids (anything that is not a UUID, e.g. Clerk
// "user_..." ids) are translated through the users table. The translation
// lives at the service boundary so queue rows and preference lookups only
// ever carry internal ids.
func ResolveUserID(ctx context.Context, users core.UserRepository, id string) (string, error) {
	if _, err := uuid.Parse(id); err == nil {
		return id, nil
	}
	return users.ResolveExternalID(ctx, id)
}
