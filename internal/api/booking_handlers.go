package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"soggiorno/internal/config"
	"soggiorno/internal/entities"
	apperrors "soggiorno/internal/errors"
	"soggiorno/internal/pricing"
	"soggiorno/internal/repository"
	"soggiorno/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
	Config  *config.Config
}

func NewBookingHandler(svc *service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{Service: svc, Config: cfg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Could not encode response: %v", err)
	}
}

// writeServiceError maps the engine's error taxonomy onto HTTP: invalid
// requests are 400, unavailability is a normal 200 business outcome with
// ok:false, anything unexpected is 500.
func writeServiceError(w http.ResponseWriter, err error) {
	if invalid := apperrors.AsInvalidRequest(err); invalid != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: invalid.Reason})
		return
	}
	if unavailable := apperrors.AsUnavailable(err); unavailable != nil {
		writeJSON(w, http.StatusOK, ErrorResponse{Reason: unavailable.Reason})
		return
	}
	if errors.Is(err, repository.ErrBookingNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Reason: "booking not found"})
		return
	}
	log.Printf("Unexpected error: %v", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Reason: "internal error"})
}

func breakdownLines(breakdown *pricing.Breakdown) []BreakdownLine {
	lines := make([]BreakdownLine, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		lines = append(lines, BreakdownLine{
			Label:        line.Label,
			Detail:       line.Detail,
			RunningTotal: line.Total.InexactFloat64(),
		})
	}
	return lines
}

func bookingResponse(b entities.Booking) BookResponse {
	return BookResponse{
		OK:         true,
		BookingID:  b.ID,
		Product:    b.ProductID,
		Customer:   b.Customer,
		Checkin:    b.Stay.Checkin.Format(entities.DateLayout),
		Checkout:   b.Stay.Checkout.Format(entities.DateLayout),
		Guests:     b.Guests,
		TotalPrice: b.AgreedPrice.InexactFloat64(),
		Currency:   b.Currency,
		Status:     b.Status,
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := entities.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: err.Error()})
		return
	}

	day := h.Service.CheckDay(date)
	writeJSON(w, http.StatusOK, AvailabilityResponse{
		OK:        true,
		Available: day.Available,
		Slots:     day.Slots,
		Reason:    day.Reason,
	})
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: "invalid request body"})
		return
	}

	stay, err := entities.ParseStayWindow(req.Checkin, req.Checkout)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: err.Error()})
		return
	}

	quote, breakdown, err := h.Service.Quote(stay, req.Guests, req.Coupon)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		OK:         true,
		Product:    quote.ProductID,
		Nights:     quote.Nights,
		TotalPrice: quote.TotalPrice.InexactFloat64(),
		Currency:   quote.Currency,
		Breakdown:  breakdownLines(breakdown),
	})
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: "invalid request body"})
		return
	}

	stay, err := entities.ParseStayWindow(req.Checkin, req.Checkout)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: err.Error()})
		return
	}

	booking, err := h.Service.Book(stay, req.Guests, req.Coupon, req.Customer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingResponse(*booking))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	booking, err := h.Service.GetBooking(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.Cancel(id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "booking_id": id, "status": entities.StatusCanceled})
}

func (h *BookingHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p := h.Config.Product
	writeJSON(w, http.StatusOK, ProductResponse{
		OK:              true,
		ID:              p.ID,
		Name:            p.Name,
		Currency:        p.Currency,
		BaseNightlyRate: p.BaseNightlyRate.InexactFloat64(),
		MaxGuests:       p.MaxGuests,
		MinStayNights:   p.MinStayNights,
		BaseOccupancy:   p.BaseOccupancy,
	})
}
