package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	// ErrMalformed means the input is not a JWT at all. Callers treat it as
	// "no credential presented".
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// HS256Verifier validates tokens produced by HS256Signer.
type HS256Verifier struct {
	secret []byte
	issuer string

	// Now is the clock used for exp/nbf checks. Defaults to time.Now.
	Now func() time.Time
}

// NewVerifierHS256 creates a verifier for the given secret. An empty issuer
// disables the iss check.
func NewVerifierHS256(secret []byte, issuer string) *HS256Verifier {
	return &HS256Verifier{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		Now:    time.Now,
	}
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// parsed claims. Every failure wraps exactly one of the sentinel errors above.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	now := v.Now

	// Time checks are done by ValidateExpiryAt below so the boundary rule
	// lives in one place.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrInvalidClaim
	}
	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryAt(now().UTC()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
