package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func TestEarlierAppointmentAvailable(t *testing.T) {
	msg, err := EarlierAppointmentAvailable("lena@example.ch", AppointmentDetails{
		CustomerName: "lena@example.ch",
		ServiceName:  "Färben",
		Date:         "2026-10-20",
		Time:         "14:30",
	})
	require.NoError(t, err)

	assert.Equal(t, "lena@example.ch", msg.To)
	assert.Equal(t, "Früherer Termin verfügbar - Schnittwerk", msg.Subject)
	assert.Equal(t, "Früherer Termin verfügbar - Färben am 2026-10-20 um 14:30", msg.Text)
	assert.Contains(t, msg.HTML, "<strong>Uhrzeit:</strong> 14:30")
}

func TestTemplatesEscapeHTML(t *testing.T) {
	msg, err := BookingConfirmation("x@example.ch", AppointmentDetails{
		CustomerName: "<script>alert(1)</script>",
		ServiceName:  "Schnitt",
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Subject, "Terminbestätigung")
}

func TestBookingReminder(t *testing.T) {
	msg, err := BookingReminder("x@example.ch", AppointmentDetails{ServiceName: "Schnitt", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, "Terminerinnerung - Schnitt morgen um 09:00", msg.Text)
}

func TestBuildMessage(t *testing.T) {
	raw, err := buildMessage("noreply@schnittwerk.ch", Message{
		To:      "lena@example.ch",
		Subject: "Terminbestätigung",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, "From: noreply@schnittwerk.ch\r\n")
	assert.Contains(t, s, "Subject: =?utf-8?q?")
	assert.Contains(t, s, "multipart/alternative")
	assert.True(t, strings.Index(s, "text/plain") < strings.Index(s, "text/html"))
}

func TestNewPicksNoopWithoutSMTP(t *testing.T) {
	m := New(&config.Config{}, nil)
	_, ok := m.(*NoopMailer)
	require.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.ch"}))

	m = New(&config.Config{SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}}, nil)
	_, ok = m.(*SMTPMailer)
	assert.True(t, ok)
}
