package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// compile-time check that *RentalRepo implements repository.RentalRepository
var _ repository.RentalRepository = (*RentalRepo)(nil)

// RentalRepo is the SQLite implementation of repository.RentalRepository.
type RentalRepo struct {
	conn *sql.DB
}

// NewRentalRepo creates a RentalRepo sharing the given database handle.
func NewRentalRepo(db *DB) *RentalRepo {
	return &RentalRepo{conn: db.conn}
}

// Create inserts a new rental, defaulting to pending.
func (r *RentalRepo) Create(ctx context.Context, rental *model.Rental) error {
	if rental.Status == "" {
		rental.Status = model.RentalPending
	}

	now := time.Now().UTC()
	rental.CreatedAt = now
	rental.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO rentals (user_id, car_id, start_date, end_date, total_cost, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rental.UserID,
		rental.CarID,
		rental.StartDate,
		rental.EndDate,
		rental.TotalCost,
		rental.Status,
		rental.CreatedAt,
		rental.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating rental: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new rental id: %w", err)
	}
	rental.ID = id

	return nil
}

// GetByID retrieves a single rental without the join columns.
func (r *RentalRepo) GetByID(ctx context.Context, id int64) (*model.Rental, error) {
	var rn model.Rental

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, car_id, start_date, end_date, total_cost, status, created_at, updated_at
		 FROM rentals WHERE id = ?`,
		id,
	).Scan(&rn.ID, &rn.UserID, &rn.CarID, &rn.StartDate, &rn.EndDate,
		&rn.TotalCost, &rn.Status, &rn.CreatedAt, &rn.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("rental", id)
		}
		return nil, fmt.Errorf("sqlite: getting rental %d: %w", id, err)
	}

	return &rn, nil
}

// List returns all rentals, newest first, with the joined customer name and
// car make/model the admin list renders.
func (r *RentalRepo) List(ctx context.Context) ([]model.Rental, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT rn.id, rn.user_id, rn.car_id, rn.start_date, rn.end_date,
		        rn.total_cost, rn.status, rn.created_at, rn.updated_at,
		        u.name, c.make, c.model
		 FROM rentals rn
		 JOIN users u ON u.id = rn.user_id
		 JOIN cars  c ON c.id = rn.car_id
		 ORDER BY rn.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing rentals: %w", err)
	}
	defer rows.Close()

	rentals := make([]model.Rental, 0, 16)
	for rows.Next() {
		var rn model.Rental
		if err := rows.Scan(&rn.ID, &rn.UserID, &rn.CarID, &rn.StartDate, &rn.EndDate,
			&rn.TotalCost, &rn.Status, &rn.CreatedAt, &rn.UpdatedAt,
			&rn.UserName, &rn.CarMake, &rn.CarModel); err != nil {
			return nil, fmt.Errorf("sqlite: scanning rental row: %w", err)
		}
		rentals = append(rentals, rn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating rentals: %w", err)
	}

	return rentals, nil
}

// UpdateStatus sets a rental's status. 0 rows affected → NotFound.
func (r *RentalRepo) UpdateStatus(ctx context.Context, id int64, status model.RentalStatus) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE rentals SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating rental %d status: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("rental", id)
	}

	return nil
}
