package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailTypeSubject(t *testing.T) {
	assert.Equal(t, "Welcome to Stumbleable!", EmailTypeWelcome.Subject())
	assert.Equal(t, "Trending discoveries this week", EmailTypeWeeklyTrending.Subject())
	assert.Equal(t, "Stumbleable notification", EmailType("mystery").Subject())
}

func TestEmailTypeValid(t *testing.T) {
	assert.True(t, EmailTypeWelcome.Valid())
	assert.True(t, EmailTypeDeletionCancelled.Valid())
	assert.False(t, EmailType("newsletter").Valid())
	assert.False(t, EmailType("").Valid())
}

func TestPreferenceCategoryMarketing(t *testing.T) {
	assert.True(t, CategoryWeeklyTrending.Marketing())
	assert.True(t, CategoryReEngagement.Marketing())
	assert.False(t, CategoryWelcome.Marketing())
	assert.False(t, CategorySubmissionUpdates.Marketing())
	assert.False(t, CategoryAccountNotifications.Marketing())
}

func TestAllowsSend(t *testing.T) {
	tests := []struct {
		name      string
		prefs     *EmailPreferences
		emailType EmailType
		want      bool
	}{
		{
			name:      "no row allows transactional",
			prefs:     nil,
			emailType: EmailTypeWelcome,
			want:      true,
		},
		{
			name:      "no row denies marketing",
			prefs:     nil,
			emailType: EmailTypeWeeklyTrending,
			want:      false,
		},
		{
			name:      "unsubscribed all suppresses transactional too",
			prefs:     &EmailPreferences{UnsubscribedAll: true, AccountNotifications: true},
			emailType: EmailTypeDeletionComplete,
			want:      false,
		},
		{
			name:      "category opt-in allows marketing",
			prefs:     &EmailPreferences{WeeklyTrending: true},
			emailType: EmailTypeWeeklyTrending,
			want:      true,
		},
		{
			name:      "category opt-out denies",
			prefs:     &EmailPreferences{WeeklyTrending: false},
			emailType: EmailTypeWeeklyTrending,
			want:      false,
		},
		{
			name:      "stored row gates transactional by its flag",
			prefs:     &EmailPreferences{SubmissionUpdates: false},
			emailType: EmailTypeSubmissionApproved,
			want:      false,
		},
		{
			name:      "unknown email type never sends",
			prefs:     &EmailPreferences{WelcomeEmail: true},
			emailType: EmailType("mystery"),
			want:      false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowsSend(tt.prefs, tt.emailType))
		})
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences("user-1")
	assert.Equal(t, "user-1", prefs.UserID)
	assert.True(t, prefs.WelcomeEmail)
	assert.True(t, prefs.SubmissionUpdates)
	assert.True(t, prefs.AccountNotifications)
	assert.False(t, prefs.WeeklyTrending)
	assert.False(t, prefs.WeeklyNew)
	assert.False(t, prefs.SavedDigest)
	assert.False(t, prefs.ReEngagement)
	assert.False(t, prefs.UnsubscribedAll)
}

func TestEnqueueEmailRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     EnqueueEmailRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  EnqueueEmailRequest{EmailType: EmailTypeWelcome, RecipientEmail: "a@example.com"},
		},
		{
			name:    "unknown email type",
			req:     EnqueueEmailRequest{EmailType: "newsletter", RecipientEmail: "a@example.com"},
			wantErr: true,
		},
		{
			name:    "missing recipient",
			req:     EnqueueEmailRequest{EmailType: EmailTypeWelcome},
			wantErr: true,
		},
		{
			name:    "malformed recipient",
			req:     EnqueueEmailRequest{EmailType: EmailTypeWelcome, RecipientEmail: "not-an-address"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
