package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"soggiorno/internal/entities"
)

type CouponType string

const (
	CouponPercent CouponType = "percent"
	CouponFixed   CouponType = "fixed"
)

// ISODate wraps time.Time so rate tables can carry YYYY-MM-DD strings.
type ISODate struct {
	time.Time
}

func (d *ISODate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := entities.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d ISODate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(entities.DateLayout) + `"`), nil
}

type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Currency          string          `json:"currency"`
	BaseNightlyRate   decimal.Decimal `json:"base_price_per_night"`
	MaxGuests         int             `json:"max_guests"`
	MinStayNights     int             `json:"min_stay_nights"`
	BaseOccupancy     int             `json:"base_occupancy"`
	PerExtraGuestFee  decimal.Decimal `json:"per_extra_guest_fee"`
	TotalSlotsPerDate int             `json:"capacity_per_day"`
	BlackoutDates     []ISODate       `json:"blackout_dates"`
}

// Season is a named calendar period with a multiplicative factor on the
// base nightly rate. Periods outside every season use factor 1.0.
type Season struct {
	Name   string          `json:"name"`
	From   ISODate         `json:"from"`
	To     ISODate         `json:"to"`
	Factor decimal.Decimal `json:"factor"`
}

// LeadTier grants a discount when the booking is made at least MinDays
// before checkin. Discount is a fraction, e.g. 0.10 for 10% off.
type LeadTier struct {
	MinDays  int             `json:"days"`
	Discount decimal.Decimal `json:"discount"`
}

type Coupon struct {
	Type  CouponType      `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type Config struct {
	Product              Product           `json:"product"`
	Seasons              []Season          `json:"seasons"`
	LeadTiers            []LeadTier        `json:"advance_tiers"`
	Coupons              map[string]Coupon `json:"coupons"`
	RejectUnknownCoupons bool              `json:"reject_unknown_coupons"`
}

func date(year, month, day int) ISODate {
	return ISODate{time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Default returns the built-in product and rate tables.
func Default() *Config {
	return &Config{
		Product: Product{
			ID:                "sicily-stay-car-01",
			Name:              "Sicily Starter Pack (Alloggio + Auto)",
			Currency:          "EUR",
			BaseNightlyRate:   decimal.NewFromInt(72),
			MaxGuests:         4,
			MinStayNights:     2,
			BaseOccupancy:     2,
			PerExtraGuestFee:  decimal.NewFromInt(15),
			TotalSlotsPerDate: 5,
			BlackoutDates:     []ISODate{date(2025, 8, 15)},
		},
		Seasons: []Season{
			{Name: "high", From: date(2025, 6, 1), To: date(2025, 9, 15), Factor: decimal.RequireFromString("1.25")},
			{Name: "holiday", From: date(2025, 12, 20), To: date(2026, 1, 6), Factor: decimal.RequireFromString("1.20")},
		},
		LeadTiers: []LeadTier{
			{MinDays: 120, Discount: decimal.RequireFromString("0.10")},
			{MinDays: 60, Discount: decimal.RequireFromString("0.06")},
			{MinDays: 30, Discount: decimal.RequireFromString("0.03")},
		},
		Coupons: map[string]Coupon{
			"WELCOME10": {Type: CouponPercent, Value: decimal.NewFromInt(10)},
			"STUDENT5":  {Type: CouponPercent, Value: decimal.NewFromInt(5)},
		},
	}
}

// Load builds the engine configuration: built-in defaults, optionally
// overridden by the JSON file named in CONFIG_FILE. Invalid configuration
// is fatal at startup, never surfaced per request.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		// a file that defines its own coupon table replaces the default
		// one wholesale, matching how the slice fields behave
		defaultCoupons := cfg.Coupons
		cfg.Coupons = nil
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if cfg.Coupons == nil {
			cfg.Coupons = defaultCoupons
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	p := c.Product
	if p.ID == "" {
		return fmt.Errorf("product.id is required")
	}
	if p.Currency == "" {
		return fmt.Errorf("product.currency is required")
	}
	if !p.BaseNightlyRate.IsPositive() {
		return fmt.Errorf("product.base_price_per_night must be positive")
	}
	if p.MaxGuests < 1 || p.BaseOccupancy < 1 || p.BaseOccupancy > p.MaxGuests {
		return fmt.Errorf("guest limits are inconsistent: max %d, base occupancy %d", p.MaxGuests, p.BaseOccupancy)
	}
	if p.MinStayNights < 1 {
		return fmt.Errorf("product.min_stay_nights must be at least 1")
	}
	if p.PerExtraGuestFee.IsNegative() {
		return fmt.Errorf("product.per_extra_guest_fee must not be negative")
	}
	if p.TotalSlotsPerDate < 1 {
		return fmt.Errorf("product.capacity_per_day must be at least 1")
	}
	for _, s := range c.Seasons {
		if s.To.Before(s.From.Time) {
			return fmt.Errorf("season %q ends before it starts", s.Name)
		}
		if !s.Factor.IsPositive() {
			return fmt.Errorf("season %q factor must be positive", s.Name)
		}
	}
	for _, t := range c.LeadTiers {
		if t.MinDays < 1 {
			return fmt.Errorf("advance tier days must be at least 1")
		}
		if t.Discount.IsNegative() || t.Discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("advance tier discount must be within [0, 1)")
		}
	}
	for code, coupon := range c.Coupons {
		if coupon.Type != CouponPercent && coupon.Type != CouponFixed {
			return fmt.Errorf("coupon %q has unknown type %q", code, coupon.Type)
		}
		if coupon.Value.IsNegative() {
			return fmt.Errorf("coupon %q value must not be negative", code)
		}
	}
	return nil
}

// SeasonFor returns the season covering the date, factor 1.0 when none does.
func (c *Config) SeasonFor(d time.Time) (string, decimal.Decimal) {
	for _, s := range c.Seasons {
		if !d.Before(s.From.Time) && !d.After(s.To.Time) {
			return s.Name, s.Factor
		}
	}
	return "default", decimal.NewFromInt(1)
}

func (c *Config) IsBlackout(d time.Time) bool {
	for _, b := range c.Product.BlackoutDates {
		if b.Equal(d) {
			return true
		}
	}
	return false
}
