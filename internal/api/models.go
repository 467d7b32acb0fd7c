package api

import "soggiorno/internal/entities"

// Quote
type QuoteRequest struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	Guests   int    `json:"guests"`
	Coupon   string `json:"coupon,omitempty"`
}

type BreakdownLine struct {
	Label        string  `json:"label"`
	Detail       string  `json:"detail,omitempty"`
	RunningTotal float64 `json:"running_total"`
}

type QuoteResponse struct {
	OK         bool            `json:"ok"`
	Product    string          `json:"product"`
	Nights     int             `json:"nights"`
	TotalPrice float64         `json:"total_price"`
	Currency   string          `json:"currency"`
	Breakdown  []BreakdownLine `json:"breakdown"`
}

// Booking
type BookRequest struct {
	Checkin  string            `json:"checkin"`
	Checkout string            `json:"checkout"`
	Guests   int               `json:"guests"`
	Coupon   string            `json:"coupon,omitempty"`
	Customer entities.Customer `json:"customer"`
}

type BookResponse struct {
	OK         bool              `json:"ok"`
	BookingID  string            `json:"booking_id"`
	Product    string            `json:"product"`
	Customer   entities.Customer `json:"customer"`
	Checkin    string            `json:"checkin"`
	Checkout   string            `json:"checkout"`
	Guests     int               `json:"guests"`
	TotalPrice float64           `json:"total_price"`
	Currency   string            `json:"currency"`
	Status     string            `json:"status"`
}

// Availability
type AvailabilityResponse struct {
	OK        bool   `json:"ok"`
	Available bool   `json:"available"`
	Slots     int    `json:"slots"`
	Reason    string `json:"reason,omitempty"`
}

type ProductResponse struct {
	OK              bool    `json:"ok"`
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Currency        string  `json:"currency"`
	BaseNightlyRate float64 `json:"base_price_per_night"`
	MaxGuests       int     `json:"max_guests"`
	MinStayNights   int     `json:"min_stay_nights"`
	BaseOccupancy   int     `json:"base_occupancy"`
}

type BookingsListResponse struct {
	OK       bool           `json:"ok"`
	Total    int            `json:"total"`
	Bookings []BookResponse `json:"bookings"`
}

type UpdateCapacityRequest struct {
	TotalSlots int `json:"total_slots"`
}

type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}
