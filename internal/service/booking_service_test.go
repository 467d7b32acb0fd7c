package service

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soggiorno/internal/config"
	"soggiorno/internal/entities"
	apperrors "soggiorno/internal/errors"
	"soggiorno/internal/repository"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isoDate(year, month, day int) config.ISODate {
	return config.ISODate{Time: date(year, month, day)}
}

func stay(checkin, checkout time.Time) entities.StayWindow {
	return entities.StayWindow{Checkin: checkin, Checkout: checkout}
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Product.BaseNightlyRate = decimal.NewFromInt(100)
	cfg.Product.MinStayNights = 2
	cfg.Product.MaxGuests = 4
	cfg.Product.BaseOccupancy = 2
	cfg.Product.PerExtraGuestFee = decimal.NewFromInt(15)
	cfg.Product.TotalSlotsPerDate = 5
	cfg.Product.BlackoutDates = []config.ISODate{isoDate(2025, 8, 15)}
	cfg.Seasons = []config.Season{
		{Name: "high", From: isoDate(2025, 6, 1), To: isoDate(2025, 9, 30), Factor: decimal.RequireFromString("1.4")},
	}
	cfg.LeadTiers = []config.LeadTier{
		{MinDays: 30, Discount: decimal.RequireFromString("0.10")},
	}
	cfg.Coupons = map[string]config.Coupon{
		"WELCOME10": {Type: config.CouponPercent, Value: decimal.NewFromInt(10)},
	}
	return cfg
}

// newTestService pins today to 2025-09-10 so lead times are deterministic.
func newTestService(cfg *config.Config) (*BookingService, *repository.CapacityLedger) {
	ledger := repository.NewCapacityLedger(cfg.Product.TotalSlotsPerDate)
	svc := NewBookingService(cfg, ledger, repository.NewBookingRepository(), nil)
	svc.now = func() time.Time { return date(2025, 9, 10) }
	return svc, ledger
}

func customer() entities.Customer {
	return entities.Customer{Name: "Anna Rossi", Email: "anna@example.com"}
}

func TestQuoteHighSeasonScenario(t *testing.T) {
	svc, _ := newTestService(testConfig())

	quote, breakdown, err := svc.Quote(stay(date(2025, 9, 20), date(2025, 9, 24)), 2, "")
	require.NoError(t, err)

	assert.Equal(t, 4, quote.Nights)
	assert.Equal(t, "560.00", quote.TotalPrice.StringFixed(2))
	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, "sicily-stay-car-01", quote.ProductID)
	assert.Len(t, breakdown.Lines, 5)
}

func TestQuoteValidation(t *testing.T) {
	svc, _ := newTestService(testConfig())

	cases := []struct {
		name   string
		stay   entities.StayWindow
		guests int
	}{
		{"checkout equals checkin", stay(date(2025, 9, 20), date(2025, 9, 20)), 2},
		{"checkout before checkin", stay(date(2025, 9, 24), date(2025, 9, 20)), 2},
		{"below minimum stay", stay(date(2025, 9, 20), date(2025, 9, 21)), 2},
		{"zero guests", stay(date(2025, 9, 20), date(2025, 9, 24)), 0},
		{"too many guests", stay(date(2025, 9, 20), date(2025, 9, 24)), 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Quote(tc.stay, tc.guests, "")
			require.Error(t, err)
			assert.NotNil(t, apperrors.AsInvalidRequest(err))
		})
	}
}

func TestQuoteNeverMutatesLedger(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	window := stay(date(2025, 9, 20), date(2025, 9, 24))

	for i := 0; i < 5; i++ {
		_, _, err := svc.Quote(window, 2, "")
		require.NoError(t, err)
		require.NoError(t, svc.CheckAvailability(window, 2))
	}
	for _, d := range window.Dates() {
		assert.Equal(t, 5, ledger.Remaining(d))
	}
}

func TestQuoteUnavailableWindow(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	require.NoError(t, ledger.Reserve(stay(date(2025, 9, 21), date(2025, 9, 22)), 5))

	_, _, err := svc.Quote(stay(date(2025, 9, 20), date(2025, 9, 24)), 2, "")
	require.Error(t, err)

	unavailable := apperrors.AsUnavailable(err)
	require.NotNil(t, unavailable)
	assert.Equal(t, "no capacity on 2025-09-21", unavailable.Reason)
}

func TestQuoteBlackout(t *testing.T) {
	svc, _ := newTestService(testConfig())

	_, _, err := svc.Quote(stay(date(2025, 8, 14), date(2025, 8, 17)), 2, "")
	require.Error(t, err)

	unavailable := apperrors.AsUnavailable(err)
	require.NotNil(t, unavailable)
	assert.Equal(t, "blackout on 2025-08-15", unavailable.Reason)
}

func TestBookReservesCapacityAndIssuesRecord(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	window := stay(date(2025, 9, 20), date(2025, 9, 24))

	booking, err := svc.Book(window, 2, "", customer())
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, entities.StatusReserved, booking.Status)
	assert.Equal(t, "560.00", booking.AgreedPrice.StringFixed(2))
	for _, d := range window.Dates() {
		assert.Equal(t, 3, ledger.Remaining(d))
	}

	stored, err := svc.GetBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, stored.ID)
}

func TestBookCustomerValidation(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	window := stay(date(2025, 9, 20), date(2025, 9, 24))

	_, err := svc.Book(window, 2, "", entities.Customer{Email: "anna@example.com"})
	assert.NotNil(t, apperrors.AsInvalidRequest(err))

	_, err = svc.Book(window, 2, "", entities.Customer{Name: "Anna", Email: "not-an-email"})
	assert.NotNil(t, apperrors.AsInvalidRequest(err))

	// failed validation reserved nothing
	assert.Equal(t, 5, ledger.Remaining(date(2025, 9, 20)))
}

func TestBookInsufficientCapacityLeavesNoPartialEffects(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	require.NoError(t, ledger.Reserve(stay(date(2025, 9, 22), date(2025, 9, 23)), 5))

	_, err := svc.Book(stay(date(2025, 9, 20), date(2025, 9, 24)), 1, "", customer())
	require.Error(t, err)
	require.NotNil(t, apperrors.AsUnavailable(err))

	assert.Equal(t, 5, ledger.Remaining(date(2025, 9, 20)))
	assert.Equal(t, 5, ledger.Remaining(date(2025, 9, 21)))

	bookings, err := svc.ListBookings("", "")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestConcurrentBookingsExactlyOneWins(t *testing.T) {
	cfg := testConfig()
	cfg.Product.TotalSlotsPerDate = 1
	svc, _ := newTestService(cfg)

	windows := []entities.StayWindow{
		stay(date(2025, 9, 20), date(2025, 9, 24)),
		stay(date(2025, 9, 22), date(2025, 9, 26)),
	}

	var wg sync.WaitGroup
	results := make(chan error, len(windows))
	for _, w := range windows {
		wg.Add(1)
		go func(w entities.StayWindow) {
			defer wg.Done()
			_, err := svc.Book(w, 1, "", customer())
			results <- err
		}(w)
	}
	wg.Wait()
	close(results)

	successes, unavailable := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.AsUnavailable(err) != nil:
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, unavailable)
}

func TestBookStrictCouponRejected(t *testing.T) {
	cfg := testConfig()
	cfg.RejectUnknownCoupons = true
	svc, ledger := newTestService(cfg)

	_, err := svc.Book(stay(date(2025, 9, 20), date(2025, 9, 24)), 2, "NOPE", customer())
	require.Error(t, err)
	assert.NotNil(t, apperrors.AsInvalidRequest(err))
	assert.Equal(t, 5, ledger.Remaining(date(2025, 9, 20)))
}

func TestCancelReleasesCapacity(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	window := stay(date(2025, 9, 20), date(2025, 9, 24))

	booking, err := svc.Book(window, 2, "", customer())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(booking.ID))
	for _, d := range window.Dates() {
		assert.Equal(t, 5, ledger.Remaining(d))
	}

	got, err := svc.GetBooking(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCanceled, got.Status)

	// a second cancel is rejected
	err = svc.Cancel(booking.ID)
	assert.NotNil(t, apperrors.AsInvalidRequest(err))
}

func TestConcurrentCancelReleasesSlotsOnce(t *testing.T) {
	svc, ledger := newTestService(testConfig())
	window := stay(date(2025, 9, 20), date(2025, 9, 24))

	victim, err := svc.Book(window, 2, "", customer())
	require.NoError(t, err)
	keeper, err := svc.Book(window, 2, "", customer())
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Cancel(victim.ID)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.NotNil(t, apperrors.AsInvalidRequest(err))
		}
	}
	assert.Equal(t, 1, successes)

	// only the victim's slots came back; the keeper still holds its two
	for _, d := range window.Dates() {
		assert.Equal(t, 3, ledger.Remaining(d))
	}

	got, err := svc.GetBooking(keeper.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusReserved, got.Status)
}

func TestCancelRejectedOnOrAfterCheckinDay(t *testing.T) {
	svc, _ := newTestService(testConfig())

	booking, err := svc.Book(stay(date(2025, 9, 20), date(2025, 9, 24)), 2, "", customer())
	require.NoError(t, err)

	svc.now = func() time.Time { return date(2025, 9, 20) }
	err = svc.Cancel(booking.ID)
	assert.NotNil(t, apperrors.AsInvalidRequest(err))
}

func TestCheckDay(t *testing.T) {
	svc, ledger := newTestService(testConfig())

	day := svc.CheckDay(date(2025, 9, 20))
	assert.True(t, day.Available)
	assert.Equal(t, 5, day.Slots)

	require.NoError(t, ledger.Reserve(stay(date(2025, 9, 20), date(2025, 9, 21)), 5))
	day = svc.CheckDay(date(2025, 9, 20))
	assert.False(t, day.Available)
	assert.Equal(t, 0, day.Slots)

	day = svc.CheckDay(date(2025, 8, 15))
	assert.False(t, day.Available)
	assert.Equal(t, "blackout", day.Reason)
}

func TestListBookingsFilters(t *testing.T) {
	svc, _ := newTestService(testConfig())

	first, err := svc.Book(stay(date(2025, 9, 20), date(2025, 9, 24)), 2, "", customer())
	require.NoError(t, err)
	_, err = svc.Book(stay(date(2025, 10, 1), date(2025, 10, 3)), 2, "", customer())
	require.NoError(t, err)

	all, err := svc.ListBookings("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	covering, err := svc.ListBookings("2025-09-21", "")
	require.NoError(t, err)
	require.Len(t, covering, 1)
	assert.Equal(t, first.ID, covering[0].ID)

	_, err = svc.ListBookings("not-a-date", "")
	assert.NotNil(t, apperrors.AsInvalidRequest(err))
}

func TestSetCapacity(t *testing.T) {
	svc, ledger := newTestService(testConfig())

	require.NoError(t, svc.SetCapacity(10))
	assert.Equal(t, 10, ledger.Remaining(date(2025, 9, 20)))

	err := svc.SetCapacity(0)
	assert.NotNil(t, apperrors.AsInvalidRequest(err))
}
