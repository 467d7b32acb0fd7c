package repository

import (
	"sync"
	"time"

	"soggiorno/internal/entities"
	"soggiorno/internal/errors"
)

// CapacityLedger is the single owner of capacity truth: a volatile map from
// date to booked slot count, guarded by one mutex. Dates that were never
// touched are fully available (lazy initialization). State is reset on
// process restart.
type CapacityLedger struct {
	mu           sync.Mutex
	totalPerDate int
	booked       map[string]int
}

func NewCapacityLedger(totalPerDate int) *CapacityLedger {
	return &CapacityLedger{
		totalPerDate: totalPerDate,
		booked:       make(map[string]int),
	}
}

func (l *CapacityLedger) remaining(date time.Time) int {
	left := l.totalPerDate - l.booked[date.Format(entities.DateLayout)]
	if left < 0 {
		return 0
	}
	return left
}

// Remaining returns the slots still free on a date. A snapshot read: it may
// be stale by the time a booking is attempted, which is why Reserve rechecks
// under its own lock.
func (l *CapacityLedger) Remaining(date time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining(date)
}

// Reserve atomically checks every date in [checkin, checkout) for the
// requested party size and decrements them all, or mutates nothing and
// reports the first short date. This is the sole concurrency authority for
// bookings: no two overlapping reservations can both win a date's last slots.
func (l *CapacityLedger) Reserve(stay entities.StayWindow, guests int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, date := range stay.Dates() {
		if l.remaining(date) < guests {
			return errors.NewInsufficientCapacity(date)
		}
	}
	for _, date := range stay.Dates() {
		l.booked[date.Format(entities.DateLayout)] += guests
	}
	return nil
}

// Release gives the window's slots back, clamped so a date never ends up
// with negative bookings. Used by the cancellation flow.
func (l *CapacityLedger) Release(stay entities.StayWindow, guests int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, date := range stay.Dates() {
		key := date.Format(entities.DateLayout)
		l.booked[key] -= guests
		if l.booked[key] <= 0 {
			delete(l.booked, key)
		}
	}
}

// TotalPerDate returns the configured capacity of a single date.
func (l *CapacityLedger) TotalPerDate() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPerDate
}

// SetTotalPerDate adjusts the per-date capacity at runtime. Existing booked
// counts are kept; Remaining floors at zero when lowered below them.
func (l *CapacityLedger) SetTotalPerDate(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalPerDate = total
}

// PruneBefore drops ledger entries for dates before cutoff and returns how
// many were removed. Past dates can never be booked again, so their counts
// are dead weight.
func (l *CapacityLedger) PruneBefore(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit := cutoff.Format(entities.DateLayout)
	pruned := 0
	for key := range l.booked {
		if key < limit {
			delete(l.booked, key)
			pruned++
		}
	}
	return pruned
}
