package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/pkg/jwtx"
)

var (
	// ErrUnauthenticated means no usable credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means a token was presented but it is not acceptable:
	// bad signature, wrong algorithm, wrong issuer, or expired.
	ErrForbidden = errors.New("forbidden")
)

// TokenService issues and verifies session tokens. It holds no state beyond
// the secret and clock, so verification needs no database round trip.
type TokenService struct {
	signer   *jwtx.HS256Signer
	verifier *jwtx.HS256Verifier
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

func NewTokenService(secret []byte, issuer string, ttl time.Duration) (*TokenService, error) {
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	return &TokenService{
		signer:   signer,
		verifier: jwtx.NewVerifierHS256(secret, issuer),
		issuer:   issuer,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// SetClock replaces the clock used for both issuing and verifying.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
	s.verifier.Now = now
}

// TTL is the lifetime given to tokens issued without an explicit ttl.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a session token for the user. A non-positive ttl uses the
// service default.
func (s *TokenService) Issue(userID, email string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	claims := jwtx.NewSessionClaims(userID, email, ttl, s.issuer, s.now().UTC())
	return s.signer.Sign(claims)
}

// Verify returns the identity carried by token. The error wraps
// ErrUnauthenticated for an empty or malformed token and ErrForbidden for
// everything else.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, ErrUnauthenticated
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		if errors.Is(err, jwtx.ErrMalformed) {
			return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrForbidden, err)
	}

	return domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
