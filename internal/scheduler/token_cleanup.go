// Package scheduler runs background maintenance on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/database/users"
)

// TokenCleanupScheduler periodically purges access tokens past their TTL.
// Expired tokens are already rejected at resolution time; the purge keeps
// the table from accumulating dead rows.
type TokenCleanupScheduler struct {
	users  *users.Repository
	config config.Auth

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewTokenCleanupScheduler creates a new scheduler instance.
func NewTokenCleanupScheduler(repo *users.Repository, cfg config.Auth) *TokenCleanupScheduler {
	return &TokenCleanupScheduler{
		users:  repo,
		config: cfg,
		cron:   cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler. Without a token TTL there is nothing to
// expire, so the scheduler stays off.
func (s *TokenCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.config.TokenTTL <= 0 {
		log.Printf("Token cleanup scheduler: disabled (no token TTL configured)")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.CleanupSchedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule token cleanup '%s': %w", s.config.CleanupSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Token cleanup scheduler: started with schedule '%s'", s.config.CleanupSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *TokenCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Token cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *TokenCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow triggers an immediate cleanup pass.
func (s *TokenCleanupScheduler) RunNow() {
	s.runCleanup()
}

func (s *TokenCleanupScheduler) runCleanup() {
	cutoff := time.Now().Add(-s.config.TokenTTL)

	purged, err := s.users.DeleteTokensBefore(cutoff)
	if err != nil {
		log.Printf("Token cleanup: failed to purge expired tokens: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Token cleanup: purged %d expired token(s)", purged)
	}
}
