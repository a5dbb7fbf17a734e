package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/mail"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/cryptox"
	"github.com/aussiebroadwan/pomodoro/pkg/idx"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMailDelivery       = errors.New("mail delivery failed")
)

// dummyHash is verified against when the email is unknown so that login
// takes the same time whether or not the account exists. It is computed on
// first use, after the pepper path has been configured.
var dummyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword("pomodoro-dummy-password")
	return h
})

// AccountService owns the user lifecycle:
// Anonymous -> Registered -> (LoggedIn <-> LoggedOut) -> Deleted.
type AccountService struct {
	Store       store.Store
	Tokens      *TokenService
	Resets      *ResetService
	Mailer      mail.Notifier
	FrontendURL string
	TxTimeout   time.Duration
}

// Register creates an account. The unique index on email decides races
// between concurrent registrations.
func (s *AccountService) Register(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		log.Error("create user failed", slog.Any("error", err))
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login checks the credentials and returns a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, dummyHash())
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Info("login rejected", slog.String("user_id", u.ID))
		return "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID, u.Email, 0)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// EnsureActive reports ErrUserNotFound once the account behind a still-valid
// token has been deleted.
func (s *AccountService) EnsureActive(ctx context.Context, userID string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return nil
}

// RequestPasswordReset emails a reset link to the account holder.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	if email == "" {
		return ErrInvalidInput
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	grant, err := s.Resets.IssueResetToken(ctx, u.ID)
	if err != nil {
		return err
	}

	msg, err := resetMessage(u.Email, s.resetLink(grant.Token), time.Until(grant.ExpiresAt))
	if err != nil {
		return err
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		log.Error("reset mail failed", slog.String("user_id", u.ID), slog.Any("error", err))
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	log.Info("reset link sent", slog.String("user_id", u.ID), slog.Time("expires_at", grant.ExpiresAt))
	return nil
}

func (s *AccountService) resetLink(token string) string {
	return strings.TrimRight(s.FrontendURL, "/") + "/reset-password/" + token
}

// DeleteAccount removes the user and everything they own in one transaction:
// tasks, then reset tokens, then the user row. Nothing is removed unless all
// three succeed.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	ctx, cancel := withTxTimeout(ctx, s.TxTimeout)
	defer cancel()

	var tasks, resets int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		if tasks, err = tx.Tasks().DeleteTasksByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if resets, err = tx.PasswordResets().DeletePasswordResetsByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete reset tokens: %w", err)
		}
		if err := tx.Users().DeleteUser(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Error("account deletion rolled back", slog.String("user_id", userID), slog.Any("error", err))
		}
		return err
	}

	log.Info("account deleted",
		slog.String("user_id", userID),
		slog.Int64("tasks", tasks),
		slog.Int64("reset_tokens", resets),
	)
	return nil
}

var resetHTML = template.Must(template.New("reset").Parse(`<p>You requested a password reset for your Pomodoro account.</p>
<p><a href="{{.Link}}">Reset your password</a></p>
<p>The link expires in {{.ValidFor}}. If you did not ask for this, ignore this email.</p>
`))

func resetMessage(to, link string, validFor time.Duration) (mail.Message, error) {
	data := struct {
		Link     string
		ValidFor string
	}{link, humanDuration(validFor)}

	var html strings.Builder
	if err := resetHTML.Execute(&html, data); err != nil {
		return mail.Message{}, fmt.Errorf("render reset mail: %w", err)
	}
	return mail.Message{
		To:      to,
		Subject: "Password Reset",
		Text: "You requested a password reset for your Pomodoro account.\n\n" +
			"Open this link to choose a new password:\n" + link + "\n\n" +
			"The link expires in " + data.ValidFor + ". If you did not ask for this, ignore this email.\n",
		HTML: html.String(),
	}, nil
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	switch {
	case d >= time.Hour && d%time.Hour == 0 && d/time.Hour == 1:
		return "1 hour"
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d <= time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	}
}
