package testfixtures

import (
	"context"
	"errors"
	"sync"

	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
)

// Mailbox records sent messages. Messages to FailTo bounce.
type Mailbox struct {
	FailTo string

	mu   sync.Mutex
	sent []mail.Message
}

func (m *Mailbox) Send(_ context.Context, msg mail.Message) error {
	if m.FailTo != "" && msg.To == m.FailTo {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *Mailbox) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}
