package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
)

// HousekeepingService periodically removes expired password reset tokens so
// the table does not grow without bound. Expired tokens are already refused
// at redemption; this only reclaims space.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(s store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    s,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. It runs one cleanup immediately.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down and waits for an in-progress cleanup to finish.
// It is safe to call more than once.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes every reset token that has expired and returns how many
// rows went.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	ctx, cancel := withTxTimeout(ctx, 0)
	defer cancel()

	n, err := s.Store.PasswordResets().DeleteExpiredPasswordResets(ctx, s.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to delete expired password resets", "error", err)
		return 0
	}
	s.Logger.Info("housekeeping cleanup completed", "expired_password_resets", n)
	return n
}
