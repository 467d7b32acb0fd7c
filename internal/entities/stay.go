package entities

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d.UTC(), nil
}

// StayWindow is a half-open date range [Checkin, Checkout).
type StayWindow struct {
	Checkin  time.Time
	Checkout time.Time
}

// ParseStayWindow parses the checkin/checkout pair. It does not validate
// ordering; that is the availability evaluator's job.
func ParseStayWindow(checkin, checkout string) (StayWindow, error) {
	in, err := ParseDate(checkin)
	if err != nil {
		return StayWindow{}, fmt.Errorf("checkin: %w", err)
	}
	out, err := ParseDate(checkout)
	if err != nil {
		return StayWindow{}, fmt.Errorf("checkout: %w", err)
	}
	return StayWindow{Checkin: in, Checkout: out}, nil
}

// Nights returns the number of nights in the window. Zero or negative
// means the window is invalid.
func (w StayWindow) Nights() int {
	return int(w.Checkout.Sub(w.Checkin).Hours() / 24)
}

// Dates returns every date covered by the stay, checkout excluded.
func (w StayWindow) Dates() []time.Time {
	var dates []time.Time
	for d := w.Checkin; d.Before(w.Checkout); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Covers reports whether date falls inside [Checkin, Checkout).
func (w StayWindow) Covers(date time.Time) bool {
	return !date.Before(w.Checkin) && date.Before(w.Checkout)
}
