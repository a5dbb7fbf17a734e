package mail

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func resetMessage() Message {
	return Message{
		To:      "alice@example.com",
		Subject: "Password Reset",
		Text:    "Reset here: http://localhost:3000/reset-password/abc",
		HTML:    `<p><a href="http://localhost:3000/reset-password/abc">Reset</a></p>`,
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	err := LogNotifier{Logger: log}.Send(context.Background(), resetMessage())
	require.NoError(t, err)
	require.Contains(t, buf.String(), "alice@example.com")
	require.NotContains(t, buf.String(), "reset-password/abc", "body stays out of info logs")
}

func TestLogNotifierRejectsIncompleteMessage(t *testing.T) {
	err := LogNotifier{Logger: slog.Default()}.Send(context.Background(), Message{Subject: "x"})
	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestNewSMTPNotifierRequiresFrom(t *testing.T) {
	_, err := NewSMTPNotifier(SMTPConfig{Host: "localhost"})
	require.Error(t, err)
}

func TestSMTPBuild(t *testing.T) {
	n, err := NewSMTPNotifier(SMTPConfig{Host: "localhost", Port: 2525, From: "noreply@pomodoro.test"})
	require.NoError(t, err)

	m, err := n.build(resetMessage())
	require.NoError(t, err)
	require.Equal(t, []string{"Password Reset"}, m.GetGenHeader(gomail.HeaderSubject))
	to := m.GetAddrHeader(gomail.HeaderTo)
	require.Len(t, to, 1)
	require.Equal(t, "alice@example.com", to[0].Address)
	require.Len(t, m.GetParts(), 2)

	_, err = n.build(Message{To: "not an address", Subject: "x"})
	require.Error(t, err)
}

func TestSMTPSendFailsWhenRelayIsDown(t *testing.T) {
	// Grab a free port and close it so the dial is refused.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	n, err := NewSMTPNotifier(SMTPConfig{
		Host:    "127.0.0.1",
		Port:    port,
		From:    "noreply@pomodoro.test",
		Timeout: time.Second,
	})
	require.NoError(t, err)

	err = n.Send(context.Background(), resetMessage())
	require.Error(t, err)
}
