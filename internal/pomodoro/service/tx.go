package service

import (
	"context"
	"errors"
	"time"
)

// DefaultTxTimeout bounds every transactional operation.
const DefaultTxTimeout = 5 * time.Second

var ErrInvalidInput = errors.New("invalid input")

// withTxTimeout caps ctx so a stalled transaction is cancelled and rolled back
// instead of pinning a pooled connection.
func withTxTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTxTimeout
	}
	return context.WithTimeout(ctx, d)
}
