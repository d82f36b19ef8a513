package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/service"
)

// AdminHandler serves user management plus the dashboard stats and reports.
// Everything here mounts behind RequireAuth + RequireAdmin.
type AdminHandler struct {
	users   *service.UserService
	reports *service.ReportService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users *service.UserService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{
		users:   users,
		reports: reports,
	}
}

// ListUsers handles GET /api/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(users),
		"data":  users,
	})
}

type roleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PUT /api/users/{id}/role.
func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	user, err := h.users.UpdateRole(r.Context(), id, model.Role(req.Role))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Stats handles GET /api/admin/stats — the dashboard headline numbers.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Reports handles GET /api/admin/reports — monthly revenue and growth.
func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Report(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
