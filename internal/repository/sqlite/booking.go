package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// compile-time check that *BookingRepo implements repository.BookingRepository
var _ repository.BookingRepository = (*BookingRepo)(nil)

// BookingRepo is the SQLite implementation of repository.BookingRepository.
type BookingRepo struct {
	conn *sql.DB
}

// NewBookingRepo creates a BookingRepo sharing the given database handle.
func NewBookingRepo(db *DB) *BookingRepo {
	return &BookingRepo{conn: db.conn}
}

// Create inserts a new booking in the pending state.
//
// The reference code is an xid: 20 chars, URL-safe, sortable by creation
// time. Customers quote it on the phone; unlike the row ID it doesn't leak
// how many bookings we have.
func (r *BookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	booking.Reference = xid.New().String()
	if booking.Status == "" {
		booking.Status = model.BookingPending
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, car_id, start_date, end_date, total_cost, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.Reference,
		booking.UserID,
		booking.CarID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalCost,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new booking id: %w", err)
	}
	booking.ID = id

	return nil
}

// GetByID retrieves a single booking without the join columns.
func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var b model.Booking

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, reference, user_id, car_id, start_date, end_date, total_cost, status, created_at, updated_at
		 FROM bookings WHERE id = ?`,
		id,
	).Scan(&b.ID, &b.Reference, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate,
		&b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("booking", id)
		}
		return nil, fmt.Errorf("sqlite: getting booking %d: %w", id, err)
	}

	return &b, nil
}

// List returns all bookings, newest first, joined with the customer's name
// and the car's make/model — the three denormalised fields the admin list
// renders. One JOIN here beats N+1 lookups in the service.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT b.id, b.reference, b.user_id, b.car_id, b.start_date, b.end_date,
		        b.total_cost, b.status, b.created_at, b.updated_at,
		        u.name, c.make, c.model
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 JOIN cars  c ON c.id = b.car_id
		 ORDER BY b.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0, 16)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate,
			&b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.UserName, &b.CarMake, &b.CarModel); err != nil {
			return nil, fmt.Errorf("sqlite: scanning booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus sets a booking's status. Transition legality is the service
// layer's job — the repository just writes what it's told.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating booking %d status: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("booking", id)
	}

	return nil
}
