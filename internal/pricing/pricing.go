// Package pricing computes the price of a stay as an explicit ordered rule
// pipeline. Each rule transforms the running total and contributes one
// breakdown line, so the application order is a visible artifact rather
// than accidental source order. The pipeline is pure: it never touches the
// capacity ledger and the same context always yields the same breakdown.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"soggiorno/internal/config"
	"soggiorno/internal/entities"
)

// Context is the immutable per-quote input. Built once per request.
type Context struct {
	Stay       entities.StayWindow
	Nights     int
	Guests     int
	CouponCode string
	Today      time.Time
}

// Line records one rule's contribution and the total after it ran.
type Line struct {
	Label  string
	Detail string
	Total  decimal.Decimal
}

// Breakdown is the itemized result. Total is rounded to two fraction
// digits, half-up; every intermediate line carries full precision.
type Breakdown struct {
	Lines    []Line
	Total    decimal.Decimal
	Currency string
}

// Rule transforms the running total. Rules must not mutate the context.
type Rule interface {
	Name() string
	Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error)
}

type Pipeline struct {
	cfg   *config.Config
	rules []Rule
}

// New builds the fixed rule order: seasonality on the nightly rate, nights
// multiplication, lead-time discount, extra-guest surcharge, coupon last.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		rules: []Rule{
			seasonality{cfg: cfg},
			nights{},
			leadTime{cfg: cfg},
			extraGuests{cfg: cfg},
			coupon{cfg: cfg},
		},
	}
}

// Quote runs every rule in order over the base nightly rate and rounds
// once at the very end.
func (p *Pipeline) Quote(ctx Context) (*Breakdown, error) {
	running := p.cfg.Product.BaseNightlyRate
	lines := make([]Line, 0, len(p.rules))

	for _, rule := range p.rules {
		next, line, err := rule.Apply(ctx, running)
		if err != nil {
			return nil, err
		}
		running = next
		lines = append(lines, line)
	}

	return &Breakdown{
		Lines:    lines,
		Total:    running.Round(2),
		Currency: p.cfg.Product.Currency,
	}, nil
}
