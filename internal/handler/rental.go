package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/service"
)

// RentalHandler serves hire-agreement endpoints for the admin dashboard.
type RentalHandler struct {
	rentals *service.RentalService
}

// NewRentalHandler creates a RentalHandler.
func NewRentalHandler(rentals *service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

// Create handles POST /api/rentals.
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.RentalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	rental, err := h.rentals.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rental)
}

// ListAdmin handles GET /api/rentals/admin (admin only).
func (h *RentalHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if rentals == nil {
		rentals = []model.Rental{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rentals),
		"data":  rentals,
	})
}

// UpdateStatus handles PUT /api/rentals/{id}/status (admin only).
func (h *RentalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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

	rental, err := h.rentals.UpdateStatus(r.Context(), id, model.RentalStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rental)
}
