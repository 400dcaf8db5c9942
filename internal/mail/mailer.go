package mail

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// New returns the SMTP mailer when mail is enabled, the no-op one otherwise.
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	if !cfg.MailEnabled() {
		return NewNoopMailer(logger)
	}
	return NewSMTPMailer(cfg.SMTP)
}

// NoopMailer logs instead of sending. Used in dev mode and without SMTP.
type NoopMailer struct {
	logger *slog.Logger
}

func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopMailer{logger: logger.With("component", "mail")}
}

func (m *NoopMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail dev no-op", "to", msg.To, "subject", msg.Subject)
	return nil
}
