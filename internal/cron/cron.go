package cron

import (
	"context"
	"log"
	"time"

	"github.com/Marga-Ghale/ora-projects/internal/metrics"
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/robfig/cron/v3"
)

const (
	jobTokenCleanup = "token_cleanup"
	jobUserStatus   = "user_status"

	// Users with no activity for this long are shown as away.
	awayAfter  = 15 * time.Minute
	jobTimeout = time.Minute
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
}

// NewScheduler creates a new scheduler
func NewScheduler(userRepo repository.UserRepository, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		userRepo: userRepo,
		metrics:  m,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	// Run every hour - Purge expired refresh tokens
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.run(jobTokenCleanup, s.cleanupExpiredTokens)
	}); err != nil {
		return err
	}

	// Update user status to away - Run every 30 minutes
	if _, err := s.cron.AddFunc("*/30 * * * *", func() {
		log.Println("[Cron] Running user status update...")
		s.run(jobUserStatus, s.updateInactiveUserStatus)
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) run(job string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ %s failed: %v", job, err)
	}
	if s.metrics != nil {
		s.metrics.RecordCronRun(job, err)
	}
}

// cleanupExpiredTokens deletes refresh tokens past their expiry
func (s *Scheduler) cleanupExpiredTokens(ctx context.Context) error {
	n, err := s.userRepo.DeleteExpiredRefreshTokens(ctx, time.Now())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[Cron] Removed %d expired refresh tokens", n)
	}
	return nil
}

// updateInactiveUserStatus marks users as away if inactive
func (s *Scheduler) updateInactiveUserStatus(ctx context.Context) error {
	n, err := s.userRepo.UpdateStatusForInactive(ctx, awayAfter)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[Cron] Marked %d users as away", n)
	}
	return nil
}

// ManualTrigger runs a job immediately by name ("token_cleanup", "user_status" or "all").
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case jobTokenCleanup:
		s.run(jobTokenCleanup, s.cleanupExpiredTokens)
	case jobUserStatus:
		s.run(jobUserStatus, s.updateInactiveUserStatus)
	case "all":
		s.run(jobTokenCleanup, s.cleanupExpiredTokens)
		s.run(jobUserStatus, s.updateInactiveUserStatus)
	default:
		log.Printf("[Cron] ⚠️ Unknown job %q", checkType)
	}
}
