package service

import (
	"log"
	"time"

	"soggiorno/internal/entities"
	"soggiorno/internal/repository"
)

// JobService runs the scheduled housekeeping: finishing bookings whose stay
// has ended and pruning ledger entries for dates that can no longer be
// booked. Wired to a daily cron in main.
type JobService struct {
	ledger   *repository.CapacityLedger
	bookings *repository.BookingRepository
	now      func() time.Time
}

func NewJobService(ledger *repository.CapacityLedger, bookings *repository.BookingRepository) *JobService {
	return &JobService{
		ledger:   ledger,
		bookings: bookings,
		now:      time.Now,
	}
}

// FinishPastBookings marks reserved bookings past their checkout as finished.
func (s *JobService) FinishPastBookings() {
	today := s.now().UTC().Truncate(24 * time.Hour)

	ids := s.bookings.ReservedIDsPastCheckout(today)
	if len(ids) == 0 {
		log.Println("Cron Job: no reserved bookings past their checkout")
		return
	}

	s.bookings.UpdateStatuses(ids, entities.StatusFinished)
	log.Printf("Cron Job: marked %d bookings as '%s'", len(ids), entities.StatusFinished)
}

// PruneLedger drops capacity counters for past dates so the volatile map
// stays bounded.
func (s *JobService) PruneLedger() {
	today := s.now().UTC().Truncate(24 * time.Hour)

	pruned := s.ledger.PruneBefore(today)
	if pruned > 0 {
		log.Printf("Cron Job: pruned %d past ledger dates", pruned)
	}
}

// Run executes the full daily housekeeping pass.
func (s *JobService) Run() {
	s.FinishPastBookings()
	s.PruneLedger()
}
