package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/mail"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store/drivers/postgres"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store/drivers/sqlite"
)

// OpenStore connects to the configured database and applies pending
// migrations.
func OpenStore(db Database, logger *slog.Logger) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch db.Driver {
	case "postgres":
		st, err = postgres.NewStore(db.URL)
	case "sqlite":
		st, err = sqlite.NewStore(db.URL)
	default:
		return nil, fmt.Errorf("unknown database driver %q", db.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", db.Driver, err)
	}

	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply %s migrations: %w", db.Driver, err)
	}

	logger.Info("database ready", "driver", db.Driver)
	return st, nil
}

// NewNotifier returns an SMTP notifier, or a LogNotifier when no host is set.
func NewNotifier(cfg Config, logger *slog.Logger) (mail.Notifier, error) {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, reset emails will only be logged")
		return mail.LogNotifier{Logger: logger}, nil
	}

	n, err := mail.NewSMTPNotifier(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.MailFrom,
		Timeout:  cfg.SMTP.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp notifier: %w", err)
	}

	logger.Info("smtp notifier configured", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	return n, nil
}
