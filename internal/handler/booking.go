package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/service"
)

// BookingHandler serves reservation endpoints for the admin dashboard.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	booking, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// List handles GET /api/bookings (admin only).
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(bookings),
		"data":  bookings,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/bookings/{id}/status (admin only).
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// pathID parses the {id} path parameter shared by the booking, rental and
// user routes.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "ID must be a positive integer")
	}
	return id, nil
}
