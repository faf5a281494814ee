package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stumbleable/jobs/internal/core"
	"github.com/stumbleable/jobs/internal/domain/model"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererOptions{
		FrontendBaseURL: "https://stumbleable.test",
		UnsubscribeURL:  "https://stumbleable.test/unsubscribe",
	})
	require.NoError(t, err)
	return r
}

func TestRenderEveryEmailType(t *testing.T) {
	r := newTestRenderer(t)
	types := []model.EmailType{
		model.EmailTypeWelcome,
		model.EmailTypeWeeklyTrending,
		model.EmailTypeWeeklyNew,
		model.EmailTypeSavedDigest,
		model.EmailTypeSubmissionReceived,
		model.EmailTypeSubmissionApproved,
		model.EmailTypeSubmissionRejected,
		model.EmailTypeReEngagement,
		model.EmailTypeDeletionRequest,
		model.EmailTypeDeletionComplete,
		model.EmailTypeDeletionCancelled,
	}

	for _, emailType := range types {
		t.Run(string(emailType), func(t *testing.T) {
			body, err := r.Render(emailType, nil)
			require.NoError(t, err)
			assert.NotEmpty(t, body)
			assert.Contains(t, body, "https://stumbleable.test/unsubscribe")
		})
	}
}

func TestRenderUnknownType(t *testing.T) {
	r := newTestRenderer(t)
	_, err := r.Render("mystery", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRenderMergesDataOverBase(t *testing.T) {
	r := newTestRenderer(t)
	body, err := r.Render(model.EmailTypeWelcome, map[string]any{"FirstName": "Ada"})
	require.NoError(t, err)
	assert.Contains(t, body, "Ada")
	assert.Contains(t, body, "https://stumbleable.test/stumble")
}

func TestRenderDigestContent(t *testing.T) {
	r := newTestRenderer(t)
	body, err := r.Render(model.EmailTypeWeeklyTrending, map[string]any{
		"Discoveries": []core.Discovery{
			{Title: "A neat page", URL: "https://example.com/neat", Domain: "example.com"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "A neat page")
	assert.Contains(t, body, "https://example.com/neat")
}

func TestRenderEscapesHTML(t *testing.T) {
	r := newTestRenderer(t)
	body, err := r.Render(model.EmailTypeWelcome, map[string]any{
		"FirstName": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestMustNewRenderer(t *testing.T) {
	assert.NotPanics(t, func() {
		MustNewRenderer(RendererOptions{})
	})
}

func TestSMTPConfigConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{}.Configured())
	assert.False(t, SMTPConfig{Host: "smtp.test", Port: 587}.Configured())
	assert.True(t, SMTPConfig{Host: "smtp.test", Port: 587, From: "hello@stumbleable.test"}.Configured())
}

func TestSimulatedSender(t *testing.T) {
	sender := NewSimulatedSender(nil)
	id, err := sender.Send(context.Background(), core.SendEmailRequest{
		To:        "a@example.com",
		Subject:   "Welcome to Stumbleable!",
		HTMLBody:  "<html></html>",
		EmailType: model.EmailTypeWelcome,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "simulated-"))
}
