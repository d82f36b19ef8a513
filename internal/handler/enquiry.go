package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/service"
)

// EnquiryHandler serves the public contact form and the admin enquiry list.
type EnquiryHandler struct {
	enquiries *service.EnquiryService
}

// NewEnquiryHandler creates an EnquiryHandler.
func NewEnquiryHandler(enquiries *service.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{enquiries: enquiries}
}

// Create handles POST /api/enquiries. This endpoint is public — it IS the
// contact form on the website.
func (h *EnquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var enq model.Enquiry
	if err := json.NewDecoder(r.Body).Decode(&enq); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	if err := h.enquiries.Create(r.Context(), &enq); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Enquiry received successfully",
		"id":      enq.ID,
	})
}

// List handles GET /api/enquiries (admin only).
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiries.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if enquiries == nil {
		enquiries = []model.Enquiry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(enquiries),
		"data":  enquiries,
	})
}
