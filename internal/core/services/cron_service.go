package services

import (
	"context"
	"log"
	"time"

	"skool-lms/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance: expired OTP codes and spent
// password reset tokens are cleared nightly so stale credentials never
// linger in the users table.
type CronService struct {
	userRepo repositories.UserRepository
	cron     *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(userRepo repositories.UserRepository) *CronService {
	return &CronService{
		userRepo: userRepo,
		cron:     cron.New(),
	}
}

// Start schedules the maintenance jobs
func (s *CronService) Start() {
	s.cron.AddFunc("@daily", s.purgeExpiredCredentials)
	s.cron.Start()
	log.Println("🚀 CronService started (daily credential purge)")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) purgeExpiredCredentials() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	otps, err := s.userRepo.ClearExpiredOTPs(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to clear expired OTPs: %v", err)
	}

	tokens, err := s.userRepo.ClearExpiredResetTokens(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to clear expired reset tokens: %v", err)
	}

	log.Printf("✅ Credential purge done: %d OTPs, %d reset tokens", otps, tokens)
}
