package service

import (
	"net/mail"
	"time"

	"github.com/google/uuid"

	"soggiorno/internal/config"
	"soggiorno/internal/entities"
	apperrors "soggiorno/internal/errors"
	"soggiorno/internal/pricing"
	"soggiorno/internal/repository"
)

// BookingService orchestrates the availability evaluator, the pricing
// pipeline and the capacity ledger. Quotes are advisory; only Book mutates
// capacity, and only through the ledger's atomic Reserve.
type BookingService struct {
	cfg      *config.Config
	pipeline *pricing.Pipeline
	ledger   *repository.CapacityLedger
	bookings *repository.BookingRepository
	sender   *SenderService
	now      func() time.Time
}

func NewBookingService(
	cfg *config.Config,
	ledger *repository.CapacityLedger,
	bookings *repository.BookingRepository,
	sender *SenderService,
) *BookingService {
	return &BookingService{
		cfg:      cfg,
		pipeline: pricing.New(cfg),
		ledger:   ledger,
		bookings: bookings,
		sender:   sender,
		now:      time.Now,
	}
}

func (s *BookingService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// CheckDay answers the single-date availability probe. Read-only.
func (s *BookingService) CheckDay(date time.Time) entities.DayAvailability {
	day := entities.DayAvailability{Date: date.Format(entities.DateLayout)}

	if s.cfg.IsBlackout(date) {
		day.Reason = "blackout"
		return day
	}

	day.Slots = s.ledger.Remaining(date)
	day.Available = day.Slots > 0
	return day
}

func (s *BookingService) validateStay(stay entities.StayWindow, guests int) error {
	nights := stay.Nights()
	if nights < 1 {
		return apperrors.NewInvalidRequest("checkout must be after checkin")
	}
	if nights < s.cfg.Product.MinStayNights {
		return apperrors.NewInvalidRequest("minimum stay is %d nights", s.cfg.Product.MinStayNights)
	}
	if guests < 1 {
		return apperrors.NewInvalidRequest("guests must be at least 1")
	}
	if guests > s.cfg.Product.MaxGuests {
		return apperrors.NewInvalidRequest("guests must not exceed %d", s.cfg.Product.MaxGuests)
	}
	return nil
}

func (s *BookingService) checkBlackout(stay entities.StayWindow) error {
	for _, date := range stay.Dates() {
		if s.cfg.IsBlackout(date) {
			return apperrors.NewUnavailable("blackout on %s", date.Format(entities.DateLayout))
		}
	}
	return nil
}

// checkWindow is the non-mutating availability evaluation over the whole
// stay: blackouts first, then a per-date capacity probe.
func (s *BookingService) checkWindow(stay entities.StayWindow, guests int) error {
	if err := s.checkBlackout(stay); err != nil {
		return err
	}
	for _, date := range stay.Dates() {
		if s.ledger.Remaining(date) < guests {
			return apperrors.NewInsufficientCapacity(date)
		}
	}
	return nil
}

// CheckAvailability validates the window and reports whether it can
// currently be served. Reserves nothing.
func (s *BookingService) CheckAvailability(stay entities.StayWindow, guests int) error {
	if err := s.validateStay(stay, guests); err != nil {
		return err
	}
	return s.checkWindow(stay, guests)
}

// Quote prices an available window with today's lead time. The result may
// race with a later booking; Book reprices and rechecks on its own.
func (s *BookingService) Quote(stay entities.StayWindow, guests int, couponCode string) (*entities.Quote, *pricing.Breakdown, error) {
	if err := s.CheckAvailability(stay, guests); err != nil {
		return nil, nil, err
	}

	breakdown, err := s.pipeline.Quote(pricing.Context{
		Stay:       stay,
		Nights:     stay.Nights(),
		Guests:     guests,
		CouponCode: couponCode,
		Today:      s.today(),
	})
	if err != nil {
		return nil, nil, err
	}

	return &entities.Quote{
		ProductID:  s.cfg.Product.ID,
		Stay:       stay,
		Nights:     stay.Nights(),
		Guests:     guests,
		TotalPrice: breakdown.Total,
		Currency:   breakdown.Currency,
	}, breakdown, nil
}

func (s *BookingService) validateCustomer(c entities.Customer) error {
	if c.Name == "" {
		return apperrors.NewInvalidRequest("customer.name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return apperrors.NewInvalidRequest("customer.email is not a valid address")
	}
	return nil
}

// Book reserves capacity and issues the booking record. The ledger's
// Reserve is the sole source of truth under concurrency; the price is
// computed fresh at booking time, never reused from an earlier quote.
func (s *BookingService) Book(stay entities.StayWindow, guests int, couponCode string, customer entities.Customer) (*entities.Booking, error) {
	if err := s.validateStay(stay, guests); err != nil {
		return nil, err
	}
	if err := s.validateCustomer(customer); err != nil {
		return nil, err
	}
	if couponCode != "" && s.cfg.RejectUnknownCoupons {
		if _, ok := s.cfg.Coupons[couponCode]; !ok {
			return nil, apperrors.NewInvalidRequest("unknown coupon code %q", couponCode)
		}
	}
	if err := s.checkBlackout(stay); err != nil {
		return nil, err
	}

	if err := s.ledger.Reserve(stay, guests); err != nil {
		return nil, err
	}

	breakdown, err := s.pipeline.Quote(pricing.Context{
		Stay:       stay,
		Nights:     stay.Nights(),
		Guests:     guests,
		CouponCode: couponCode,
		Today:      s.today(),
	})
	if err != nil {
		s.ledger.Release(stay, guests)
		return nil, err
	}

	now := s.now().UTC()
	booking := entities.Booking{
		ID:          uuid.NewString(),
		ProductID:   s.cfg.Product.ID,
		Stay:        stay,
		Guests:      guests,
		Customer:    customer,
		CouponCode:  couponCode,
		AgreedPrice: breakdown.Total,
		Currency:    breakdown.Currency,
		Status:      entities.StatusReserved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.bookings.Save(booking)

	if s.sender != nil {
		s.sender.NotifyBooking(booking, entities.StatusReserved)
	}
	return &booking, nil
}

func (s *BookingService) GetBooking(id string) (entities.Booking, error) {
	return s.bookings.GetByID(id)
}

// Cancel releases the booking's slots back to the ledger. Allowed only
// before the checkin day; this is the documented increment path. The
// reserved->canceled transition is the gate: only the caller that wins it
// releases, so concurrent cancels of one booking free its slots once.
func (s *BookingService) Cancel(id string) error {
	booking, err := s.bookings.GetByID(id)
	if err != nil {
		return err
	}
	if booking.Status != entities.StatusReserved {
		return apperrors.NewInvalidRequest("booking is already %s", booking.Status)
	}
	if !s.today().Before(booking.Stay.Checkin) {
		return apperrors.NewInvalidRequest("bookings can only be cancelled before checkin day")
	}

	won, err := s.bookings.UpdateStatusIf(id, entities.StatusReserved, entities.StatusCanceled)
	if err != nil {
		return err
	}
	if !won {
		current, err := s.bookings.GetByID(id)
		if err != nil {
			return err
		}
		return apperrors.NewInvalidRequest("booking is already %s", current.Status)
	}

	s.ledger.Release(booking.Stay, booking.Guests)

	if s.sender != nil {
		booking.Status = entities.StatusCanceled
		s.sender.NotifyBooking(booking, entities.StatusCanceled)
	}
	return nil
}

// ListBookings serves the admin listing with optional date/status filters.
func (s *BookingService) ListBookings(dateStr, status string) ([]entities.Booking, error) {
	var date *time.Time
	if dateStr != "" {
		d, err := entities.ParseDate(dateStr)
		if err != nil {
			return nil, apperrors.NewInvalidRequest("date: %v", err)
		}
		date = &d
	}
	return s.bookings.List(date, status), nil
}

// SetCapacity adjusts the per-date slot total at runtime.
func (s *BookingService) SetCapacity(total int) error {
	if total < 1 {
		return apperrors.NewInvalidRequest("total_slots must be at least 1")
	}
	s.ledger.SetTotalPerDate(total)
	return nil
}
