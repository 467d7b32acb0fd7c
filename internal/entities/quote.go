package entities

import "github.com/shopspring/decimal"

// Quote is an advisory priced offer. It reserves nothing and may race with
// a later booking; callers must treat it as valid only for the instant it
// was issued.
type Quote struct {
	ProductID  string
	Stay       StayWindow
	Nights     int
	Guests     int
	TotalPrice decimal.Decimal
	Currency   string
}
