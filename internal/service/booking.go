package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// dateLayout is the wire format for booking and rental dates. Dates are
// calendar days, not instants — storing them as bare YYYY-MM-DD strings
// avoids the timezone round-trip bugs that full timestamps invite.
const dateLayout = "2006-01-02"

// BookingService handles reservation requests and their status lifecycle.
type BookingService struct {
	bookings repository.BookingRepository
	cars     repository.CarRepository
	logger   *slog.Logger
}

// NewBookingService creates a BookingService.
func NewBookingService(
	bookings repository.BookingRepository,
	cars repository.CarRepository,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		cars:     cars,
		logger:   logger,
	}
}

// BookingInput carries a new reservation request.
type BookingInput struct {
	UserID    int64  `json:"userId"`
	CarID     int64  `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Create validates dates against the car's weekly rate and persists a new
// pending booking. Cost is computed server-side — clients never set prices.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (*model.Booking, error) {
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
	if !car.Available {
		return nil, apperror.Conflict("car", "car is not available for booking")
	}

	// Charge by the started week: a 3-day booking costs one week.
	days := int(end.Sub(start).Hours()/24) + 1
	weeks := (days + 6) / 7
	cost := float64(weeks) * car.WeeklyRate

	booking := &model.Booking{
		UserID:    in.UserID,
		CarID:     in.CarID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		TotalCost: cost,
		Status:    model.BookingPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	s.logger.Info("booking created",
		slog.Int64("id", booking.ID),
		slog.String("reference", booking.Reference),
		slog.Int64("carId", booking.CarID),
		slog.Float64("totalCost", booking.TotalCost),
	)
	return booking, nil
}

// List returns all bookings, newest first, with user and car names joined
// in for the admin table.
func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	return s.bookings.List(ctx)
}

// UpdateStatus moves a booking through its lifecycle. Illegal jumps (e.g.
// cancelled back to pending) are rejected as conflicts; unknown status
// strings are validation errors.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("%q is not a valid booking status", status))
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransition(status) {
		return nil, apperror.Conflict("booking",
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, status))
	}

	if booking.Status == status {
		return booking, nil // idempotent no-op
	}

	if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("updating booking status: %w", err)
	}

	s.logger.Info("booking status changed",
		slog.Int64("id", id),
		slog.String("from", string(booking.Status)),
		slog.String("to", string(status)),
	)

	booking.Status = status
	return booking, nil
}

// parseDateRange validates a YYYY-MM-DD start/end pair and returns the
// parsed times. End before start is a validation error.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" {
		return time.Time{}, time.Time{}, apperror.ValidationFailed("startDate", "start date is required")
	}
	if endDate == "" {
		return time.Time{}, time.Time{}, apperror.ValidationFailed("endDate", "end date is required")
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.ValidationFailed("startDate", "start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.ValidationFailed("endDate", "end date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.ValidationFailed("endDate", "end date must not be before start date")
	}
	return start, end, nil
}
