package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/cryptox"
	"github.com/aussiebroadwan/pomodoro/pkg/idx"
	"github.com/aussiebroadwan/pomodoro/pkg/slogx"
)

var (
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenExpired  = errors.New("reset token expired")
)

// ResetService is the ledger of password reset tokens. Tokens are stored as
// fingerprints; the raw value exists only in the email sent to the user.
type ResetService struct {
	Store     store.Store
	TTL       time.Duration
	TxTimeout time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ResetService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return domain.DefaultResetTokenTTL
}

// IssueResetToken creates a new single-use token for userID. Tokens issued
// earlier stay valid until they expire or are redeemed.
func (s *ResetService) IssueResetToken(ctx context.Context, userID string) (domain.ResetGrant, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.ResetGrant{}, fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now()
	rec := domain.PasswordReset{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.PasswordResets().CreatePasswordReset(ctx, rec); err != nil {
		return domain.ResetGrant{}, fmt.Errorf("store reset token: %w", err)
	}

	return domain.ResetGrant{Token: raw, ExpiresAt: rec.ExpiresAt}, nil
}

// Redeem sets a new password for the owner of token and consumes the token.
// Both writes happen in one transaction. A second redemption of the same
// token reports ErrResetTokenNotFound.
func (s *ResetService) Redeem(ctx context.Context, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return ErrResetTokenNotFound
	}
	if newPassword == "" {
		return ErrInvalidInput
	}

	// Hash outside the transaction so the connection is not held while
	// argon2 runs.
	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ctx, cancel := withTxTimeout(ctx, s.TxTimeout)
	defer cancel()

	fingerprint := cryptox.FingerprintToken(token)
	now := s.now()

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.PasswordResets().GetPasswordResetByTokenHash(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetTokenNotFound
			}
			return err
		}
		if rec.Expired(now) {
			return ErrResetTokenExpired
		}

		if err := tx.Users().UpdatePasswordHash(ctx, rec.UserID, hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetTokenNotFound
			}
			return err
		}

		// Zero rows here means a concurrent redemption won the race.
		if err := tx.PasswordResets().DeletePasswordReset(ctx, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetTokenNotFound
			}
			return err
		}

		userID = rec.UserID
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrResetTokenNotFound) && !errors.Is(err, ErrResetTokenExpired) {
			log.Error("reset redemption failed", slog.Any("error", err))
			return fmt.Errorf("redeem reset token: %w", err)
		}
		return err
	}

	log.Info("password reset", slog.String("user_id", userID))
	return nil
}
