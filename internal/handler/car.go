// Package handler contains the HTTP layer: request parsing, routing glue,
// and response shaping. Handlers never touch the database directly — they
// call services and translate the results to JSON and status codes.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
	"github.com/gccheapcars/rental-api/internal/service"
)

// CarHandler serves the fleet endpoints under /api/cars.
type CarHandler struct {
	cars *service.CarService
}

// NewCarHandler creates a CarHandler.
func NewCarHandler(cars *service.CarService) *CarHandler {
	return &CarHandler{cars: cars}
}

// carListResponse is the public list shape: a count alongside the rows, so
// the frontend can render "6 cars available" without counting client-side.
type carListResponse struct {
	Count int         `json:"count"`
	Data  []model.Car `json:"data"`
}

// List handles GET /api/cars?available=true.
//
// The available filter is tri-state: absent means all cars; true/1 means
// only cars for hire; false/0 means only cars currently out. Anything else
// is a 400 — silently ignoring a typo'd filter would return the wrong fleet.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.CarFilter

	if raw := r.URL.Query().Get("available"); raw != "" {
		switch raw {
		case "true", "1":
			t := true
			filter.Available = &t
		case "false", "0":
			f := false
			filter.Available = &f
		default:
			writeError(w, apperror.ValidationFailed("available",
				"available must be true, false, 1 or 0"))
			return
		}
	}

	cars, err := h.cars.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	// Empty fleet serializes as data: [] rather than data: null.
	if cars == nil {
		cars = []model.Car{}
	}

	writeJSON(w, http.StatusOK, carListResponse{
		Count: len(cars),
		Data:  cars,
	})
}

// Get handles GET /api/cars/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := carIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}

	car, err := h.cars.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, car)
}

// Create handles POST /api/cars.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CarInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	car, err := h.cars.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Car created successfully",
		"id":      car.ID,
	})
}

// Update handles PATCH /api/cars/{id} and its PUT alias. Both apply a
// partial patch: absent fields stay untouched.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := carIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.CarPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	if err := h.cars.Update(r.Context(), id, patch); err != nil {
		writeError(w, err)
		return
	}

	car, err := h.cars.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Car updated successfully",
		"data":    car,
	})
}

// Delete handles DELETE /api/cars/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := carIDFromURL(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.cars.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// carIDFromURL parses the {id} path parameter. A non-numeric id is a 400,
// not a 404 — /api/cars/abc is a malformed request, not a missing car.
func carIDFromURL(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "car ID must be a positive integer")
	}
	return id, nil
}
