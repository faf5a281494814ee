package service

import (
	"context"
	"log/slog"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/data"
	"github.com/stumbleable/jobs/internal/domain/model"
)

// PreferenceService reads and writes per-recipient email opt-ins. Callers
// may pass external auth-provider ids; everything is resolved to internal
// UUIDs before touching storage.
type PreferenceService struct {
	prefs    core.EmailPreferencesRepository
	users    core.UserRepository
	timeProv data.TimeProvider
	logger   *slog.Logger
}

// PreferenceServiceOptions holds the dependencies for creating a PreferenceService.
type PreferenceServiceOptions struct {
	Preferences  core.EmailPreferencesRepository
	Users        core.UserRepository
	TimeProvider data.TimeProvider
	Logger       *slog.Logger
}

// NewPreferenceService creates a new PreferenceService with the given dependencies.
func NewPreferenceService(opts PreferenceServiceOptions) *PreferenceService {
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &PreferenceService{
		prefs:    opts.Preferences,
		users:    opts.Users,
		timeProv: opts.TimeProvider,
		logger:   opts.Logger.With("component", "preferences"),
	}
}

// GetPreferences returns the stored row for a user, or the category
// defaults when no row exists. The defaults are not persisted by reading.
func (s *PreferenceService) GetPreferences(
	ctx context.Context,
	userID string,
) (*model.EmailPreferences, error) {
	internalID, err := ResolveUserID(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	stored, err := s.prefs.GetByUserID(ctx, internalID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return model.DefaultPreferences(internalID), nil
	}
	return stored, nil
}

// UpdatePreferences persists a full preference row for the user.
func (s *PreferenceService) UpdatePreferences(
	ctx context.Context,
	userID string,
	prefs model.EmailPreferences,
) (*model.EmailPreferences, error) {
	internalID, err := ResolveUserID(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	prefs.UserID = internalID
	prefs.UpdatedAt = s.timeProv.Now().UTC()
	if err := s.prefs.Upsert(ctx, &prefs); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "preferences updated",
		"user_id", internalID, "unsubscribed_all", prefs.UnsubscribedAll)
	return &prefs, nil
}

// UnsubscribeAll flips the absolute opt-out for a user. Every category flag
// is preserved so re-subscribing restores the previous choices.
func (s *PreferenceService) UnsubscribeAll(ctx context.Context, userID string) (*model.EmailPreferences, error) {
	current, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	current.UnsubscribedAll = true
	return s.UpdatePreferences(ctx, current.UserID, *current)
}
