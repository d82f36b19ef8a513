package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// A hand-written in-memory implementation of repository.CarRepository.
// The service doesn't know or care whether it gets this or the SQLite one —
// that's the point of taking the interface.

type mockCarRepo struct {
	cars   map[int64]*model.Car
	nextID int64
}

func newMockCarRepo() *mockCarRepo {
	return &mockCarRepo{cars: make(map[int64]*model.Car)}
}

func (m *mockCarRepo) Create(_ context.Context, car *model.Car) error {
	for _, existing := range m.cars {
		if existing.LicensePlate == car.LicensePlate {
			return apperror.Conflict("car", "license plate already registered")
		}
	}
	m.nextID++
	car.ID = m.nextID
	stored := *car
	m.cars[car.ID] = &stored
	return nil
}

func (m *mockCarRepo) GetByID(_ context.Context, id int64) (*model.Car, error) {
	car, ok := m.cars[id]
	if !ok {
		return nil, apperror.NotFound("car", id)
	}
	result := *car
	return &result, nil
}

func (m *mockCarRepo) List(_ context.Context, filter repository.CarFilter) ([]model.Car, error) {
	result := make([]model.Car, 0, len(m.cars))
	for _, c := range m.cars {
		if filter.Available != nil && c.Available != *filter.Available {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCarRepo) Update(_ context.Context, id int64, patch model.CarPatch) error {
	car, ok := m.cars[id]
	if !ok {
		return apperror.NotFound("car", id)
	}
	if patch.Make != nil {
		car.Make = *patch.Make
	}
	if patch.Model != nil {
		car.Model = *patch.Model
	}
	if patch.Year != nil {
		car.Year = *patch.Year
	}
	if patch.WeeklyRate != nil {
		car.WeeklyRate = *patch.WeeklyRate
	}
	if patch.Available != nil {
		car.Available = patch.Available.Bool()
	}
	if patch.LicensePlate != nil {
		car.LicensePlate = *patch.LicensePlate
	}
	if patch.ImageURL != nil {
		car.ImageURL = *patch.ImageURL
	}
	return nil
}

func (m *mockCarRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.cars[id]; !ok {
		return apperror.NotFound("car", id)
	}
	delete(m.cars, id)
	return nil
}

func (m *mockCarRepo) Count(_ context.Context) (int, error) {
	return len(m.cars), nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCarService(t *testing.T) (*CarService, *mockCarRepo) {
	t.Helper()
	repo := newMockCarRepo()
	return NewCarService(repo, testLogger()), repo
}

func validInput() CarInput {
	return CarInput{
		Make:         "Toyota",
		Model:        "Yaris",
		Year:         2015,
		WeeklyRate:   185,
		LicensePlate: "MNO-345",
	}
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCarCreate_Success(t *testing.T) {
	svc, _ := newTestCarService(t)

	car, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if car.ID == 0 {
		t.Error("expected car to have an ID")
	}
	// Availability defaults to true when the field is omitted.
	if !car.Available {
		t.Error("Available = false, want default true")
	}
}

func TestCarCreate_ExplicitUnavailable(t *testing.T) {
	svc, _ := newTestCarService(t)

	in := validInput()
	off := model.Flag(false)
	in.Available = &off

	car, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if car.Available {
		t.Error("Available = true, want explicit false to be respected")
	}
}

func TestCarCreate_TrimsWhitespace(t *testing.T) {
	svc, _ := newTestCarService(t)

	in := validInput()
	in.Make = "  Toyota  "
	in.Model = "  Yaris  "

	car, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if car.Make != "Toyota" || car.Model != "Yaris" {
		t.Errorf("fields not trimmed: %q %q", car.Make, car.Model)
	}
}

func TestCarCreate_MissingFields(t *testing.T) {
	svc, repo := newTestCarService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CarInput)
	}{
		{"missing make", func(in *CarInput) { in.Make = "" }},
		{"whitespace make", func(in *CarInput) { in.Make = "   " }},
		{"missing model", func(in *CarInput) { in.Model = "" }},
		{"missing year", func(in *CarInput) { in.Year = 0 }},
		{"missing rate", func(in *CarInput) { in.WeeklyRate = 0 }},
		{"missing plate", func(in *CarInput) { in.LicensePlate = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}

	// None of the rejected inputs may have been persisted.
	count, _ := repo.Count(ctx)
	if count != 0 {
		t.Errorf("repo has %d cars after rejected creates, want 0", count)
	}
}

func TestCarCreate_ImplausibleYear(t *testing.T) {
	svc, _ := newTestCarService(t)
	ctx := context.Background()

	for _, year := range []int{1890, 2120} {
		in := validInput()
		in.Year = year
		if _, err := svc.Create(ctx, in); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("year %d: error = %v, want ErrValidation", year, err)
		}
	}
}

func TestCarCreate_NegativeRate(t *testing.T) {
	svc, _ := newTestCarService(t)

	in := validInput()
	in.WeeklyRate = -10

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCarCreate_DuplicatePlate(t *testing.T) {
	svc, _ := newTestCarService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validInput()); err != nil {
		t.Fatalf("setup Create() error = %v", err)
	}

	_, err := svc.Create(ctx, validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestCarUpdate_PartialPatch(t *testing.T) {
	svc, repo := newTestCarService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("setup Create() error = %v", err)
	}

	rate := 200.0
	if err := svc.Update(ctx, created.ID, model.CarPatch{WeeklyRate: &rate}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.WeeklyRate != 200 {
		t.Errorf("WeeklyRate = %v, want 200", stored.WeeklyRate)
	}
	if stored.Make != "Toyota" {
		t.Errorf("Make changed to %q by an unrelated patch", stored.Make)
	}
}

func TestCarUpdate_EmptyPatch(t *testing.T) {
	svc, _ := newTestCarService(t)

	err := svc.Update(context.Background(), 1, model.CarPatch{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCarUpdate_InvalidField(t *testing.T) {
	svc, _ := newTestCarService(t)

	empty := "   "
	err := svc.Update(context.Background(), 1, model.CarPatch{Make: &empty})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestCarUpdate_NotFound(t *testing.T) {
	svc, _ := newTestCarService(t)

	rate := 100.0
	err := svc.Update(context.Background(), 9999, model.CarPatch{WeeklyRate: &rate})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCarUpdate_TooLongMake(t *testing.T) {
	svc, _ := newTestCarService(t)

	long := strings.Repeat("a", MaxMakeLength+1)
	err := svc.Update(context.Background(), 1, model.CarPatch{Make: &long})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

// =========================================================================
// LIST / DELETE TESTS
// =========================================================================

func TestCarList_Filter(t *testing.T) {
	svc, _ := newTestCarService(t)
	ctx := context.Background()

	in := validInput()
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	in2 := validInput()
	in2.LicensePlate = "PQR-678"
	off := model.Flag(false)
	in2.Available = &off
	if _, err := svc.Create(ctx, in2); err != nil {
		t.Fatalf("Create: %v", err)
	}

	avail := true
	cars, err := svc.List(ctx, repository.CarFilter{Available: &avail})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(cars) != 1 {
		t.Errorf("List(available=true) returned %d, want 1", len(cars))
	}
}

func TestCarDelete_NotFound(t *testing.T) {
	svc, _ := newTestCarService(t)

	err := svc.Delete(context.Background(), 9999)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
