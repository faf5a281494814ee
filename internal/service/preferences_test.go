package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/mocks"
)

const internalUserID = "7d7e9c62-59f8-4f93-9a29-2f1f8f6f3b01"

type prefsFixture struct {
	svc   *PreferenceService
	prefs *mocks.MockEmailPreferencesRepository
	users *mocks.MockUserRepository
}

func newPrefsFixture(t *testing.T) *prefsFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	prefs := mocks.NewMockEmailPreferencesRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	svc := NewPreferenceService(PreferenceServiceOptions{
		Preferences:  prefs,
		Users:        users,
		TimeProvider: fixedClock(),
	})
	return &prefsFixture{svc: svc, prefs: prefs, users: users}
}

func TestGetPreferences(t *testing.T) {
	t.Run("missing row falls back to defaults", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.prefs.EXPECT().GetByUserID(gomock.Any(), internalUserID).Return(nil, nil)

		got, err := f.svc.GetPreferences(context.Background(), internalUserID)
		require.NoError(t, err)
		assert.Equal(t, internalUserID, got.UserID)
		assert.True(t, got.WelcomeEmail)
		assert.True(t, got.SubmissionUpdates)
		assert.True(t, got.AccountNotifications)
		assert.False(t, got.WeeklyTrending)
		assert.False(t, got.UnsubscribedAll)
	})

	t.Run("stored row returned as-is", func(t *testing.T) {
		f := newPrefsFixture(t)
		stored := &model.EmailPreferences{UserID: internalUserID, WeeklyTrending: true}
		f.prefs.EXPECT().GetByUserID(gomock.Any(), internalUserID).Return(stored, nil)

		got, err := f.svc.GetPreferences(context.Background(), internalUserID)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("external id resolved first", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.users.EXPECT().ResolveExternalID(gomock.Any(), "clerk_abc").Return(internalUserID, nil)
		f.prefs.EXPECT().GetByUserID(gomock.Any(), internalUserID).Return(nil, nil)

		got, err := f.svc.GetPreferences(context.Background(), "clerk_abc")
		require.NoError(t, err)
		assert.Equal(t, internalUserID, got.UserID)
	})

	t.Run("unknown external id", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.users.EXPECT().ResolveExternalID(gomock.Any(), "clerk_missing").
			Return("", apperrors.NotFound("user not found"))

		_, err := f.svc.GetPreferences(context.Background(), "clerk_missing")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestUpdatePreferences(t *testing.T) {
	t.Run("stamps user id and updated at", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.prefs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, prefs *model.EmailPreferences) error {
				assert.Equal(t, internalUserID, prefs.UserID)
				assert.Equal(t, fixedClock().Now().UTC(), prefs.UpdatedAt)
				assert.True(t, prefs.WeeklyNew)
				return nil
			})

		got, err := f.svc.UpdatePreferences(context.Background(), internalUserID,
			model.EmailPreferences{WeeklyNew: true})
		require.NoError(t, err)
		assert.Equal(t, internalUserID, got.UserID)
	})

	t.Run("upsert failure surfaces", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.prefs.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.UpdatePreferences(context.Background(), internalUserID, model.EmailPreferences{})
		require.Error(t, err)
	})
}

func TestUnsubscribeAll(t *testing.T) {
	t.Run("category flags survive the opt-out", func(t *testing.T) {
		f := newPrefsFixture(t)
		stored := &model.EmailPreferences{
			UserID:         internalUserID,
			WeeklyTrending: true,
			SavedDigest:    true,
		}
		f.prefs.EXPECT().GetByUserID(gomock.Any(), internalUserID).Return(stored, nil)
		f.prefs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, prefs *model.EmailPreferences) error {
				assert.True(t, prefs.UnsubscribedAll)
				assert.True(t, prefs.WeeklyTrending)
				assert.True(t, prefs.SavedDigest)
				return nil
			})

		got, err := f.svc.UnsubscribeAll(context.Background(), internalUserID)
		require.NoError(t, err)
		assert.True(t, got.UnsubscribedAll)
	})

	t.Run("works with no stored row", func(t *testing.T) {
		f := newPrefsFixture(t)
		f.prefs.EXPECT().GetByUserID(gomock.Any(), internalUserID).Return(nil, nil)
		f.prefs.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, prefs *model.EmailPreferences) error {
				// Defaults plus the opt-out.
				assert.True(t, prefs.UnsubscribedAll)
				assert.True(t, prefs.WelcomeEmail)
				return nil
			})

		got, err := f.svc.UnsubscribeAll(context.Background(), internalUserID)
		require.NoError(t, err)
		assert.True(t, got.UnsubscribedAll)
	})
}
