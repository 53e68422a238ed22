package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockroom/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService sweeps expired rows out of the token ledger. Rows older than
// the refresh lifetime hold two expired tokens, so removing them cannot
// revoke a live session.
type CronService struct {
	tokenRepo     repositories.TokenRepository
	refreshExpiry time.Duration
	cron          *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(tokenRepo repositories.TokenRepository, refreshExpiry time.Duration) *CronService {
	return &CronService{
		tokenRepo:     tokenRepo,
		refreshExpiry: refreshExpiry,
		cron:          cron.New(),
	}
}

// Start schedules the nightly sweep (03:00)
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.sweepExpiredTokens); err != nil {
		return fmt.Errorf("failed to schedule token sweep: %w", err)
	}
	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) sweepExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.refreshExpiry)
	deleted, err := s.tokenRepo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("⚠️ Token sweep failed: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("✅ Token sweep removed %d expired rows", deleted)
	}
}
