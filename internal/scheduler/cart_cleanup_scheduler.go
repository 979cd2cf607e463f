package scheduler

import (
	"time"

	"github.com/emartin/storefront-backend/internal/app/repository"
	"github.com/emartin/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler purges abandoned guest carts on a schedule
type CartCleanupScheduler struct {
	cron      *cron.Cron
	cartRepo  repository.CartRepository
	retention time.Duration
}

// NewCartCleanupScheduler creates the guest cart cleanup scheduler.
// Guest carts idle longer than retention are removed.
func NewCartCleanupScheduler(cartRepo repository.CartRepository, retention time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:      cron.New(),
		cartRepo:  cartRepo,
		retention: retention,
	}
}

// Start begins the scheduled cleanup
func (s *CartCleanupScheduler) Start() error {
	// Daily at 4:00 AM, off-peak for the shop
	_, err := s.cron.AddFunc("0 4 * * *", s.runCleanup)
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started successfully (daily at 4:00 AM)", map[string]interface{}{
		"retention": s.retention.String(),
	})

	return nil
}

// Stop stops the scheduler
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}

func (s *CartCleanupScheduler) runCleanup() {
	logger.Info("Starting scheduled guest cart cleanup", nil)

	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.cartRepo.DeleteStaleGuestCarts(cutoff)
	if err != nil {
		logger.Error("Failed to clean up guest carts from scheduler", err)
		return
	}

	logger.Info("Successfully cleaned up guest carts from scheduler", map[string]interface{}{
		"deleted_carts": deleted,
		"cutoff":        cutoff.Format(time.RFC3339),
	})
}
