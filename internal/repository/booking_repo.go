package repository

import (
	"errors"
	"sort"
	"sync"
	"time"

	"soggiorno/internal/entities"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository is the volatile booking record store, keyed by booking
// id. Records are value objects: callers get copies, mutations go through
// UpdateStatus.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]entities.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[string]entities.Booking)}
}

func (r *BookingRepository) Save(b entities.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

func (r *BookingRepository) GetByID(id string) (entities.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

// List returns bookings matching the optional filters, newest first.
// date filters bookings whose stay covers that date.
func (r *BookingRepository) List(date *time.Time, status string) []entities.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entities.Booking
	for _, b := range r.bookings {
		if date != nil && !b.Stay.Covers(*date) {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *BookingRepository) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return nil
}

// UpdateStatusIf flips the booking to status only when it currently holds
// from, reporting whether the transition won. Callers use it as the gate
// for side effects that must happen exactly once per booking.
func (r *BookingRepository) UpdateStatusIf(id, from, to string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return false, ErrBookingNotFound
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return true, nil
}

// ReservedIDsPastCheckout lists reserved bookings whose stay already ended,
// candidates for the housekeeping job to mark finished.
func (r *BookingRepository) ReservedIDsPastCheckout(asOf time.Time) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, b := range r.bookings {
		if b.Status == entities.StatusReserved && !b.Stay.Checkout.After(asOf) {
			ids = append(ids, id)
		}
	}
	return ids
}

// UpdateStatuses flips every listed booking to status, skipping ids that
// disappeared in the meantime.
func (r *BookingRepository) UpdateStatuses(ids []string, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range ids {
		b, ok := r.bookings[id]
		if !ok {
			continue
		}
		b.Status = status
		b.UpdatedAt = now
		r.bookings[id] = b
	}
}
