package repository

import (
	"context"

	"github.com/gccheapcars/rental-api/internal/model"
)

// CarFilter narrows a car listing. Available is tri-state:
// nil = no filter, true = only available, false = only unavailable.
type CarFilter struct {
	Available *bool
}

type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	List(ctx context.Context, filter CarFilter) ([]model.Car, error)
	Update(ctx context.Context, id int64, patch model.CarPatch) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateRole(ctx context.Context, id int64, role model.Role) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) error
	GetByID(ctx context.Context, id int64) (*model.Rental, error)
	List(ctx context.Context) ([]model.Rental, error)
	UpdateStatus(ctx context.Context, id int64, status model.RentalStatus) error
}

type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *model.Enquiry) error
	List(ctx context.Context) ([]model.Enquiry, error)
}

// Stats is the dashboard summary the admin console's landing page shows.
type Stats struct {
	TotalRevenue    float64         `json:"totalRevenue"`
	ActiveBookings  int             `json:"activeBookings"`
	AvailableCars   int             `json:"availableCars"`
	PendingPayments int             `json:"pendingPayments"`
	RecentBookings  []model.Booking `json:"recentBookings"`
}

// Report is the aggregate view behind the admin reports page.
type Report struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	MonthlyRevenue        float64 `json:"monthlyRevenue"`
	TotalRentals          int     `json:"totalRentals"`
	ActiveRentals         int     `json:"activeRentals"`
	TotalCars             int     `json:"totalCars"`
	AvailableCars         int     `json:"availableCars"`
	AverageRentalDuration float64 `json:"averageRentalDuration"`
	RevenueGrowth         float64 `json:"revenueGrowth"`
	RentalGrowth          float64 `json:"rentalGrowth"`
}

// StatsRepository computes admin aggregates. It's a separate interface
// because reporting cuts across cars, bookings, and rentals — it doesn't
// belong to any single entity repository.
type StatsRepository interface {
	Stats(ctx context.Context) (*Stats, error)
	Report(ctx context.Context) (*Report, error)
}
