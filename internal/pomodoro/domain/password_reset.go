package domain

import "time"

// DefaultResetTokenTTL is how long a forgot-password link works.
const DefaultResetTokenTTL = time.Hour

// PasswordReset is a stored reset token. Only the fingerprint of the token
// that was emailed is kept.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the reset is no longer usable at now.
func (p PasswordReset) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// ResetGrant is handed to the caller when a token is issued. Token is the raw
// value and is never persisted.
type ResetGrant struct {
	Token     string
	ExpiresAt time.Time
}
