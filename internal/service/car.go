// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Handlers only know about HTTP (status codes, headers, JSON). Services only
// know about business rules (validation, state transitions). Neither knows
// about SQL. Services take repository INTERFACES, not concrete types, so
// tests inject in-memory mocks and the SQLite package stays unimported here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// Validation constants. The year floor is generous — the fleet is budget
// hatchbacks, not veterans — but a typo like 202 or 20255 must not get in.
const (
	MinCarYear        = 1950
	MaxMakeLength     = 80
	MaxModelLength    = 80
	MaxPlateLength    = 20
	MaxImageURLLength = 2048
)

// CarService handles business logic for the vehicle fleet.
type CarService struct {
	cars   repository.CarRepository
	logger *slog.Logger
}

// NewCarService creates a CarService. The caller decides which repository
// implementation to inject (SQLite in production, a mock in tests).
func NewCarService(cars repository.CarRepository, logger *slog.Logger) *CarService {
	return &CarService{
		cars:   cars,
		logger: logger,
	}
}

// CarInput is a full car payload for creation. Available is a pointer so an
// absent field defaults to true (a newly listed car is presumably for hire)
// while an explicit false is respected.
type CarInput struct {
	Make         string      `json:"make"`
	Model        string      `json:"model"`
	Year         int         `json:"year"`
	WeeklyRate   float64     `json:"weeklyRate"`
	Available    *model.Flag `json:"available"`
	LicensePlate string      `json:"licensePlate"`
	ImageURL     string      `json:"imageUrl"`
}

// Create validates and persists a new car.
//
// Every required field is checked here, not in the handler: the handler's
// job ends at "is this valid JSON?". Validation failures name the offending
// field so the admin form can highlight it.
func (s *CarService) Create(ctx context.Context, in CarInput) (*model.Car, error) {
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if err := validateCarFields(in.Make, in.Model, in.LicensePlate, in.ImageURL, in.Year, in.WeeklyRate, true); err != nil {
		return nil, err
	}

	available := true
	if in.Available != nil {
		available = in.Available.Bool()
	}

	car := &model.Car{
		Make:         in.Make,
		Model:        in.Model,
		Year:         in.Year,
		WeeklyRate:   in.WeeklyRate,
		Available:    available,
		LicensePlate: in.LicensePlate,
		ImageURL:     in.ImageURL,
	}

	if err := s.cars.Create(ctx, car); err != nil {
		// Conflict (duplicate plate) is the caller's mistake — log it quietly.
		s.logger.Warn("failed to create car",
			slog.String("licensePlate", in.LicensePlate),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating car: %w", err)
	}

	s.logger.Info("car created",
		slog.Int64("id", car.ID),
		slog.String("make", car.Make),
		slog.String("model", car.Model),
		slog.String("licensePlate", car.LicensePlate),
	)

	return car, nil
}

// GetByID retrieves one car.
func (s *CarService) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	return s.cars.GetByID(ctx, id)
}

// List returns cars matching the filter plus their count. The count is the
// length of the same result set — the API contract promises {count, data}.
func (s *CarService) List(ctx context.Context, filter repository.CarFilter) ([]model.Car, error) {
	cars, err := s.cars.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list cars", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing cars: %w", err)
	}
	return cars, nil
}

// Update applies a partial patch. Only supplied fields are validated and
// only supplied fields change — an absent `available` must NOT reset a car
// to some default.
func (s *CarService) Update(ctx context.Context, id int64, patch model.CarPatch) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "car ID must be a positive integer")
	}

	if patch.Make != nil {
		trimmed := strings.TrimSpace(*patch.Make)
		patch.Make = &trimmed
		if trimmed == "" {
			return apperror.ValidationFailed("make", "make must not be empty")
		}
		if len(trimmed) > MaxMakeLength {
			return apperror.ValidationFailed("make",
				fmt.Sprintf("make must be %d characters or less", MaxMakeLength))
		}
	}
	if patch.Model != nil {
		trimmed := strings.TrimSpace(*patch.Model)
		patch.Model = &trimmed
		if trimmed == "" {
			return apperror.ValidationFailed("model", "model must not be empty")
		}
		if len(trimmed) > MaxModelLength {
			return apperror.ValidationFailed("model",
				fmt.Sprintf("model must be %d characters or less", MaxModelLength))
		}
	}
	if patch.Year != nil {
		if !plausibleYear(*patch.Year) {
			return apperror.ValidationFailed("year", "year is not a plausible vehicle year")
		}
	}
	if patch.WeeklyRate != nil && *patch.WeeklyRate < 0 {
		return apperror.ValidationFailed("weeklyRate", "weekly rate must not be negative")
	}
	if patch.LicensePlate != nil {
		trimmed := strings.TrimSpace(*patch.LicensePlate)
		patch.LicensePlate = &trimmed
		if trimmed == "" {
			return apperror.ValidationFailed("licensePlate", "license plate must not be empty")
		}
		if len(trimmed) > MaxPlateLength {
			return apperror.ValidationFailed("licensePlate",
				fmt.Sprintf("license plate must be %d characters or less", MaxPlateLength))
		}
	}

	if !patchHasFields(patch) {
		return apperror.ValidationFailed("body", "update requires at least one field")
	}

	if err := s.cars.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("updating car: %w", err)
	}

	s.logger.Info("car updated", slog.Int64("id", id))
	return nil
}

// Delete removes a car from the fleet.
func (s *CarService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "car ID must be a positive integer")
	}

	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("car deleted", slog.Int64("id", id))
	return nil
}

// validateCarFields checks the full field set for creation. The required
// flag exists so a future strict-PUT could reuse it; today only Create calls
// it with required=true.
func validateCarFields(carMake, carModel, plate, imageURL string, year int, weeklyRate float64, required bool) error {
	if required && carMake == "" {
		return apperror.ValidationFailed("make", "make is required")
	}
	if len(carMake) > MaxMakeLength {
		return apperror.ValidationFailed("make",
			fmt.Sprintf("make must be %d characters or less", MaxMakeLength))
	}
	if required && carModel == "" {
		return apperror.ValidationFailed("model", "model is required")
	}
	if len(carModel) > MaxModelLength {
		return apperror.ValidationFailed("model",
			fmt.Sprintf("model must be %d characters or less", MaxModelLength))
	}
	if required && year == 0 {
		return apperror.ValidationFailed("year", "year is required")
	}
	if !plausibleYear(year) {
		return apperror.ValidationFailed("year", "year is not a plausible vehicle year")
	}
	if weeklyRate < 0 {
		return apperror.ValidationFailed("weeklyRate", "weekly rate must not be negative")
	}
	if required && weeklyRate == 0 {
		return apperror.ValidationFailed("weeklyRate", "weekly rate is required")
	}
	if required && plate == "" {
		return apperror.ValidationFailed("licensePlate", "license plate is required")
	}
	if len(plate) > MaxPlateLength {
		return apperror.ValidationFailed("licensePlate",
			fmt.Sprintf("license plate must be %d characters or less", MaxPlateLength))
	}
	if len(imageURL) > MaxImageURLLength {
		return apperror.ValidationFailed("imageUrl",
			fmt.Sprintf("image URL must be %d characters or less", MaxImageURLLength))
	}
	return nil
}

// plausibleYear allows model years from MinCarYear up to next year —
// dealers list next year's models before January.
func plausibleYear(year int) bool {
	return year >= MinCarYear && year <= time.Now().Year()+1
}

// patchHasFields reports whether the patch carries at least one field.
func patchHasFields(p model.CarPatch) bool {
	return p.Make != nil || p.Model != nil || p.Year != nil ||
		p.WeeklyRate != nil || p.Available != nil ||
		p.LicensePlate != nil || p.ImageURL != nil
}
