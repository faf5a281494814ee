package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/stumbleable/jobs/internal/core"
	apperrors "github.com/stumbleable/jobs/internal/errors"
)

// SMTPConfig holds connection settings for the outbound mail provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// RetryWindow bounds the per-send backoff loop. Zero means a single
	// attempt; the queue's own retry cycle handles the rest.
	RetryWindow time.Duration
}

// Configured reports whether the config is complete enough to dial.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port > 0 && c.From != ""
}

// SMTPSender delivers rendered emails over SMTP.
type SMTPSender struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTPSender with the given configuration.
func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{cfg: cfg, logger: logger.With("component", "smtp_sender")}
}

// Send delivers one message. Dial and send failures within the retry window
// are retried with exponential backoff; the final error is returned so the
// queue can count the attempt.
func (s *SMTPSender) Send(ctx context.Context, req core.SendEmailRequest) (string, error) {
	messageID := fmt.Sprintf("<%s@stumbleable>", uuid.NewString())

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", req.To)
	m.SetHeader("Subject", req.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", req.HTMLBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	operation := func() error {
		return d.DialAndSend(m)
	}

	var err error
	if s.cfg.RetryWindow > 0 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 500 * time.Millisecond
		b.MaxElapsedTime = s.cfg.RetryWindow
		err = backoff.Retry(operation, backoff.WithContext(b, ctx))
	} else {
		err = operation()
	}
	if err != nil {
		return "", apperrors.DeliveryProvider(err, "smtp send failed")
	}

	s.logger.DebugContext(ctx, "email delivered",
		"to", req.To, "email_type", req.EmailType, "message_id", messageID)
	return messageID, nil
}

// SimulatedSender logs sends instead of dialing a provider. Used when no
// SMTP configuration is present, so local and CI runs exercise the full
// queue protocol without outbound mail.
type SimulatedSender struct {
	logger *slog.Logger
}

// NewSimulatedSender creates a SimulatedSender.
func NewSimulatedSender(logger *slog.Logger) *SimulatedSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedSender{logger: logger.With("component", "simulated_sender")}
}

// Send logs the message and reports success with a synthetic message id.
func (s *SimulatedSender) Send(ctx context.Context, req core.SendEmailRequest) (string, error) {
	messageID := "simulated-" + uuid.NewString()
	s.logger.InfoContext(ctx, "simulated email send",
		"to", req.To, "subject", req.Subject, "email_type", req.EmailType,
		"message_id", messageID)
	return messageID, nil
}
