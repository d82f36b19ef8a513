package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
)

type mockBookingRepo struct {
	bookings map[int64]*model.Booking
	nextID   int64
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[int64]*model.Booking)}
}

func (m *mockBookingRepo) Create(_ context.Context, b *model.Booking) error {
	m.nextID++
	b.ID = m.nextID
	b.Reference = "ref-mock"
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	stored := *b
	m.bookings[b.ID] = &stored
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, apperror.NotFound("booking", id)
	}
	result := *b
	return &result, nil
}

func (m *mockBookingRepo) List(_ context.Context) ([]model.Booking, error) {
	result := make([]model.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id int64, status model.BookingStatus) error {
	b, ok := m.bookings[id]
	if !ok {
		return apperror.NotFound("booking", id)
	}
	b.Status = status
	return nil
}

func newTestBookingService(t *testing.T) (*BookingService, *mockBookingRepo, *mockCarRepo) {
	t.Helper()
	bookings := newMockBookingRepo()
	cars := newMockCarRepo()
	svc := NewBookingService(bookings, cars, testLogger())
	return svc, bookings, cars
}

func seedMockCar(t *testing.T, cars *mockCarRepo, available bool) *model.Car {
	t.Helper()
	car := &model.Car{
		Make:         "Nissan",
		Model:        "Micra",
		Year:         2012,
		WeeklyRate:   170,
		Available:    available,
		LicensePlate: "DEF-456",
	}
	if err := cars.Create(context.Background(), car); err != nil {
		t.Fatalf("seeding car: %v", err)
	}
	return car
}

func TestBookingCreate_ComputesCost(t *testing.T) {
	svc, _, cars := newTestBookingService(t)
	car := seedMockCar(t, cars, true)

	// 10 days → charged as 2 weeks.
	booking, err := svc.Create(context.Background(), BookingInput{
		UserID:    1,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-10",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if booking.TotalCost != 340 {
		t.Errorf("TotalCost = %v, want 340 (2 weeks at 170)", booking.TotalCost)
	}
	if booking.Status != model.BookingPending {
		t.Errorf("Status = %q, want %q", booking.Status, model.BookingPending)
	}
}

func TestBookingCreate_UnavailableCar(t *testing.T) {
	svc, _, cars := newTestBookingService(t)
	car := seedMockCar(t, cars, false)

	_, err := svc.Create(context.Background(), BookingInput{
		UserID:    1,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-07",
	})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestBookingCreate_BadDates(t *testing.T) {
	svc, _, cars := newTestBookingService(t)
	car := seedMockCar(t, cars, true)
	ctx := context.Background()

	tests := []struct {
		name       string
		start, end string
	}{
		{"missing start", "", "2026-09-07"},
		{"missing end", "2026-09-01", ""},
		{"malformed start", "01/09/2026", "2026-09-07"},
		{"end before start", "2026-09-07", "2026-09-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, BookingInput{
				UserID:    1,
				CarID:     car.ID,
				StartDate: tt.start,
				EndDate:   tt.end,
			})
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBookingUpdateStatus_LegalTransition(t *testing.T) {
	svc, _, cars := newTestBookingService(t)
	car := seedMockCar(t, cars, true)
	ctx := context.Background()

	booking, err := svc.Create(ctx, BookingInput{
		UserID: 1, CarID: car.ID,
		StartDate: "2026-09-01", EndDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("setup Create() error = %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, booking.ID, model.BookingConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != model.BookingConfirmed {
		t.Errorf("Status = %q, want %q", updated.Status, model.BookingConfirmed)
	}
}

func TestBookingUpdateStatus_IllegalTransition(t *testing.T) {
	svc, _, cars := newTestBookingService(t)
	car := seedMockCar(t, cars, true)
	ctx := context.Background()

	booking, err := svc.Create(ctx, BookingInput{
		UserID: 1, CarID: car.ID,
		StartDate: "2026-09-01", EndDate: "2026-09-07",
	})
	if err != nil {
		t.Fatalf("setup Create() error = %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, booking.ID, model.BookingCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelled is terminal — no way back to confirmed.
	_, err = svc.UpdateStatus(ctx, booking.ID, model.BookingConfirmed)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestBookingUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	_, err := svc.UpdateStatus(context.Background(), 1, model.BookingStatus("shipped"))
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestBookingUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestBookingService(t)

	_, err := svc.UpdateStatus(context.Background(), 9999, model.BookingConfirmed)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
