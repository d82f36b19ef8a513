package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// RentalService manages active hire agreements. A rental is what a booking
// becomes once the customer actually picks the car up: it has its own
// lifecycle (pending → active → completed) because the money and the keys
// change hands at different times than the reservation.
type RentalService struct {
	rentals repository.RentalRepository
	cars    repository.CarRepository
	logger  *slog.Logger
}

// NewRentalService creates a RentalService.
func NewRentalService(
	rentals repository.RentalRepository,
	cars repository.CarRepository,
	logger *slog.Logger,
) *RentalService {
	return &RentalService{
		rentals: rentals,
		cars:    cars,
		logger:  logger,
	}
}

// RentalInput carries a new hire agreement.
type RentalInput struct {
	UserID    int64  `json:"userId"`
	CarID     int64  `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Create validates and persists a new pending rental.
func (s *RentalService) Create(ctx context.Context, in RentalInput) (*model.Rental, error) {
	if in.UserID <= 0 {
		return nil, apperror.ValidationFailed("userId", "user ID is required")
	}
	if in.CarID <= 0 {
		return nil, apperror.ValidationFailed("carId", "car ID is required")
	}

	start, end, err := parseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	car, err := s.cars.GetByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}

	days := int(end.Sub(start).Hours()/24) + 1
	weeks := (days + 6) / 7
	cost := float64(weeks) * car.WeeklyRate

	rental := &model.Rental{
		UserID:    in.UserID,
		CarID:     in.CarID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		TotalCost: cost,
		Status:    model.RentalPending,
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, fmt.Errorf("creating rental: %w", err)
	}

	s.logger.Info("rental created",
		slog.Int64("id", rental.ID),
		slog.Int64("carId", rental.CarID),
		slog.Float64("totalCost", rental.TotalCost),
	)
	return rental, nil
}

// List returns all rentals for the admin dashboard, newest first.
func (s *RentalService) List(ctx context.Context) ([]model.Rental, error) {
	return s.rentals.List(ctx)
}

// UpdateStatus moves a rental through its lifecycle. Activating a rental
// marks its car unavailable; completing or cancelling one frees the car up
// again. Car updates are best-effort — a rental status change must not fail
// because the car row is gone.
func (s *RentalService) UpdateStatus(ctx context.Context, id int64, status model.RentalStatus) (*model.Rental, error) {
	if !status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("%q is not a valid rental status", status))
	}

	rental, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rental.Status.CanTransition(status) {
		return nil, apperror.Conflict("rental",
			fmt.Sprintf("cannot move rental from %s to %s", rental.Status, status))
	}

	if rental.Status == status {
		return rental, nil
	}

	if err := s.rentals.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("updating rental status: %w", err)
	}

	s.syncCarAvailability(ctx, rental.CarID, status)

	s.logger.Info("rental status changed",
		slog.Int64("id", id),
		slog.String("from", string(rental.Status)),
		slog.String("to", string(status)),
	)

	rental.Status = status
	return rental, nil
}

func (s *RentalService) syncCarAvailability(ctx context.Context, carID int64, status model.RentalStatus) {
	var available model.Flag
	switch status {
	case model.RentalActive:
		available = false
	case model.RentalCompleted, model.RentalCancelled:
		available = true
	default:
		return
	}

	if err := s.cars.Update(ctx, carID, model.CarPatch{Available: &available}); err != nil {
		s.logger.Warn("failed to sync car availability",
			slog.Int64("carId", carID),
			slog.String("error", err.Error()),
		)
	}
}
