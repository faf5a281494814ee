package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	apperrors "github.com/stumbleable/jobs/internal/errors"
	"github.com/stumbleable/jobs/internal/mocks"
)

func TestResolveUserID(t *testing.T) {
	t.Run("uuid passes through without a lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		// No ResolveExternalID expectation.

		got, err := ResolveUserID(context.Background(), users, internalUserID)
		require.NoError(t, err)
		assert.Equal(t, internalUserID, got)
	})

	t.Run("external id translated through the users table", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		users.EXPECT().ResolveExternalID(gomock.Any(), "user_2abcDEF").Return(internalUserID, nil)

		got, err := ResolveUserID(context.Background(), users, "user_2abcDEF")
		require.NoError(t, err)
		assert.Equal(t, internalUserID, got)
	})

	t.Run("unknown external id surfaces not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		users := mocks.NewMockUserRepository(ctrl)
		users.EXPECT().ResolveExternalID(gomock.Any(), "user_missing").
			Return("", apperrors.NotFound("user not found"))

		_, err := ResolveUserID(context.Background(), users, "user_missing")
		assert.True(t, apperrors.IsNotFound(err))
	})
}
