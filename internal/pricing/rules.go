package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"soggiorno/internal/config"
	"soggiorno/internal/errors"
)

var one = decimal.NewFromInt(1)

// seasonality multiplies the base nightly rate by the factor of the season
// the checkin date falls into, applied uniformly across the whole stay.
// Mixed-period stays are not prorated per night.
type seasonality struct {
	cfg *config.Config
}

func (seasonality) Name() string { return "seasonal nightly rate" }

func (r seasonality) Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error) {
	name, factor := r.cfg.SeasonFor(ctx.Stay.Checkin)
	running = running.Mul(factor)
	return running, Line{
		Label:  r.Name(),
		Detail: fmt.Sprintf("%s season, factor %s", name, factor),
		Total:  running,
	}, nil
}

// nights turns the nightly rate into the stay subtotal.
type nights struct{}

func (nights) Name() string { return "nights" }

func (r nights) Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error) {
	running = running.Mul(decimal.NewFromInt(int64(ctx.Nights)))
	return running, Line{
		Label:  r.Name(),
		Detail: fmt.Sprintf("%d nights", ctx.Nights),
		Total:  running,
	}, nil
}

// leadTime applies the best single matching advance-booking tier: the
// highest threshold the lead time satisfies. Tiers never stack.
type leadTime struct {
	cfg *config.Config
}

func (leadTime) Name() string { return "lead-time discount" }

func (r leadTime) Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error) {
	days := int(ctx.Stay.Checkin.Sub(ctx.Today).Hours() / 24)

	var best *config.LeadTier
	for i, tier := range r.cfg.LeadTiers {
		if days >= tier.MinDays && (best == nil || tier.MinDays > best.MinDays) {
			best = &r.cfg.LeadTiers[i]
		}
	}
	if best == nil {
		return running, Line{
			Label:  r.Name(),
			Detail: fmt.Sprintf("booked %d days ahead, no discount", days),
			Total:  running,
		}, nil
	}

	running = running.Mul(one.Sub(best.Discount))
	return running, Line{
		Label:  r.Name(),
		Detail: fmt.Sprintf("booked %d days ahead, -%s%%", days, best.Discount.Mul(decimal.NewFromInt(100))),
		Total:  running,
	}, nil
}

// extraGuests adds a flat per-guest per-night fee for every guest above
// the base occupancy.
type extraGuests struct {
	cfg *config.Config
}

func (extraGuests) Name() string { return "extra-guest surcharge" }

func (r extraGuests) Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error) {
	extras := ctx.Guests - r.cfg.Product.BaseOccupancy
	if extras <= 0 {
		return running, Line{Label: r.Name(), Detail: "no extra guests", Total: running}, nil
	}

	surcharge := r.cfg.Product.PerExtraGuestFee.
		Mul(decimal.NewFromInt(int64(extras))).
		Mul(decimal.NewFromInt(int64(ctx.Nights)))
	running = running.Add(surcharge)
	return running, Line{
		Label:  r.Name(),
		Detail: fmt.Sprintf("%d extra guests x %s x %d nights", extras, r.cfg.Product.PerExtraGuestFee, ctx.Nights),
		Total:  running,
	}, nil
}

// coupon applies last, on top of every other adjustment. Unknown codes are
// ignored with a visible line unless the strict policy flag is set, in
// which case they reject the request.
type coupon struct {
	cfg *config.Config
}

func (coupon) Name() string { return "coupon" }

func (r coupon) Apply(ctx Context, running decimal.Decimal) (decimal.Decimal, Line, error) {
	if ctx.CouponCode == "" {
		return running, Line{Label: r.Name(), Detail: "none", Total: running}, nil
	}

	c, ok := r.cfg.Coupons[ctx.CouponCode]
	if !ok {
		if r.cfg.RejectUnknownCoupons {
			return running, Line{}, errors.NewInvalidRequest("unknown coupon code %q", ctx.CouponCode)
		}
		return running, Line{
			Label:  r.Name(),
			Detail: fmt.Sprintf("%s not applied", ctx.CouponCode),
			Total:  running,
		}, nil
	}

	var detail string
	switch c.Type {
	case config.CouponPercent:
		running = running.Mul(one.Sub(c.Value.Div(decimal.NewFromInt(100))))
		detail = fmt.Sprintf("%s, -%s%%", ctx.CouponCode, c.Value)
	case config.CouponFixed:
		running = running.Sub(c.Value)
		if running.IsNegative() {
			running = decimal.Zero
		}
		detail = fmt.Sprintf("%s, -%s", ctx.CouponCode, c.Value)
	}

	return running, Line{Label: r.Name(), Detail: detail, Total: running}, nil
}
