// Package mail delivers transactional email such as password reset links.
package mail

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

// Message is a single outbound email with a plain-text and an HTML body.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var ErrInvalidMessage = errors.New("mail: message needs a recipient and a subject")

func (m Message) validate() error {
	if m.To == "" || m.Subject == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Notifier sends messages. Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the logger instead of delivering them. It is
// what the server runs with when no SMTP host is configured. Bodies are only
// logged at debug level since they may carry reset links.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	log := n.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}
	log.InfoContext(ctx, "mail not delivered, no smtp host configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	log.DebugContext(ctx, "mail body", slog.String("text", msg.Text))
	return nil
}
