// Package scheduler runs the periodic cart-session cleanup job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/config"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/interfaces"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/logging"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/metrics"
)

// Scheduler removes expired cart sessions on an hourly cadence. Sessions
// older than the configured expiry are deleted; the job is a no-op when
// auto cleanup is disabled.
type Scheduler struct {
	store     interfaces.Store
	cart      config.CartConfig
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler with injected dependencies
func NewScheduler(store interfaces.Store, cart config.CartConfig) *Scheduler {
	return &Scheduler{
		store:     store,
		cart:      cart,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the hourly cleanup job and runs it once immediately so a
// long-stopped server catches up on restart.
func (s *Scheduler) Start() error {
	if !s.cart.AutoCleanupEnabled {
		logging.Info("Cart auto cleanup disabled, scheduler not started")
		return nil
	}

	if err := s.RunCleanup(context.Background()); err != nil {
		logging.Error("Initial cart cleanup failed", "error", err)
	}

	_, err := s.scheduler.Every(1).Hours().Do(func() {
		if err := s.RunCleanup(context.Background()); err != nil {
			logging.Error("Cart cleanup failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cart cleanup: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunCleanup deletes cart sessions idle longer than the configured expiry.
func (s *Scheduler) RunCleanup(ctx context.Context) error {
	expiry := time.Duration(s.cart.SessionExpiryHours) * time.Hour

	deleted, err := s.store.CleanupExpiredCarts(ctx, expiry)
	if err != nil {
		return fmt.Errorf("cleanup expired carts: %w", err)
	}

	if deleted > 0 {
		metrics.CartSessionsCleanedTotal.Add(float64(deleted))
		logging.Info("Expired cart sessions removed", "count", deleted, "older_than", expiry.String())
	}

	return nil
}
