package api

import (
	"encoding/json"
	"net/http"

	"soggiorno/internal/service"
)

type AdminHandler struct {
	Service *service.BookingService
}

func NewAdminHandler(svc *service.BookingService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")

	bookings, err := h.Service.ListBookings(date, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := BookingsListResponse{OK: true, Total: len(bookings)}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, bookingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	var req UpdateCapacityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Reason: "invalid request body"})
		return
	}

	if err := h.Service.SetCapacity(req.TotalSlots); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "total_slots": req.TotalSlots})
}
