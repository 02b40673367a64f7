package scheduler

import (
	"log"
	"time"

	"cpsheet-backend/internal/auth/repository"
)

// EmailChangeSweeper deletes expired pending email-change requests in the
// background, so abandoned requests don't accumulate beyond their TTL. The
// verify path checks expiry on read as well; this sweep is the passive half.
type EmailChangeSweeper struct {
	emailChangeRepo repository.EmailChangeRepository
	interval        time.Duration
	stopChan        chan struct{}
}

func NewEmailChangeSweeper(emailChangeRepo repository.EmailChangeRepository) *EmailChangeSweeper {
	return &EmailChangeSweeper{
		emailChangeRepo: emailChangeRepo,
		interval:        1 * time.Minute,
		stopChan:        make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *EmailChangeSweeper) Start() {
	log.Println("[Sweeper] Starting email change sweeper (interval: 1 minute)")

	go func() {
		// Run immediately on start
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				log.Println("[Sweeper] Sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper
func (s *EmailChangeSweeper) Stop() {
	close(s.stopChan)
}

func (s *EmailChangeSweeper) sweep() {
	removed, err := s.emailChangeRepo.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("[Sweeper] Error deleting expired email change requests: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[Sweeper] Removed %d expired email change requests", removed)
	}
}
