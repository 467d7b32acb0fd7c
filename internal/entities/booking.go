package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusReserved = "reserved"
	StatusCanceled = "canceled"
	StatusFinished = "finished"
)

type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Language string `json:"language,omitempty"`
}

// Booking is the record issued once capacity has been reserved. The agreed
// price is fixed at booking time and never recomputed.
type Booking struct {
	ID          string
	ProductID   string
	Stay        StayWindow
	Guests      int
	Customer    Customer
	CouponCode  string
	AgreedPrice decimal.Decimal
	Currency    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
