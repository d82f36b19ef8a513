package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` verifies at compile time that *DB implements the
// interface. Without this, a missing method would only surface at the call
// site that passes *DB where a CarRepository is expected.
var _ repository.CarRepository = (*CarRepo)(nil)

// CarRepo is the SQLite implementation of repository.CarRepository.
//
// Each entity gets its own repo type sharing the *sql.DB pool from New().
// Keeping them separate (rather than hanging every method off DB) stops the
// method set of one entity from colliding with another's.
type CarRepo struct {
	conn *sql.DB
}

// NewCarRepo creates a CarRepo sharing the given database handle.
func NewCarRepo(db *DB) *CarRepo {
	return &CarRepo{conn: db.conn}
}

// boolToInt converts a Go bool to SQLite's 0/1 representation.
// The inverse happens in scanCar. The rest of the app never sees the integer.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create inserts a new car and fills in its generated ID and timestamps.
//
// DUPLICATE PLATES:
// license_plate carries a UNIQUE constraint, so inserting a duplicate fails
// at the database level. We translate that specific failure into
// apperror.Conflict so the handler can answer 409 instead of a generic 500 —
// the client did something wrong, the server didn't break.
//
// database/sql gives us no typed constraint error that's portable across
// drivers, so we match on SQLite's well-known message text.
func (r *CarRepo) Create(ctx context.Context, car *model.Car) error {
	now := time.Now().UTC()
	car.CreatedAt = now
	car.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO cars (make, model, year, weekly_rate, available, license_plate, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		car.Make,
		car.Model,
		car.Year,
		car.WeeklyRate,
		boolToInt(car.Available),
		car.LicensePlate,
		car.ImageURL,
		car.CreatedAt,
		car.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "cars.license_plate") {
			return apperror.Conflict("car",
				fmt.Sprintf("license plate %s already exists", car.LicensePlate))
		}
		return fmt.Errorf("sqlite: creating car: %w", err)
	}

	// AUTOINCREMENT assigned the ID — read it back so the caller can return it.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new car id: %w", err)
	}
	car.ID = id

	return nil
}

// GetByID retrieves a single car.
// sql.ErrNoRows is not really an error — it just means "no matching row
// exists" — so we translate it to our NotFound domain error.
func (r *CarRepo) GetByID(ctx context.Context, id int64) (*model.Car, error) {
	row := r.conn.QueryRowContext(ctx,
		`SELECT id, make, model, year, weekly_rate, available, license_plate, image_url, created_at, updated_at
		 FROM cars
		 WHERE id = ?`,
		id,
	)

	car, err := scanCar(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("car", id)
		}
		return nil, fmt.Errorf("sqlite: getting car %d: %w", id, err)
	}

	return car, nil
}

// List returns cars, optionally filtered by availability.
//
// The filter is tri-state: nil means "all cars", otherwise we compare the
// stored 0/1 column against the requested boolean. The fleet is small enough
// that pagination would be ceremony — the original site always renders the
// whole inventory.
func (r *CarRepo) List(ctx context.Context, filter repository.CarFilter) ([]model.Car, error) {
	query := `SELECT id, make, model, year, weekly_rate, available, license_plate, image_url, created_at, updated_at
		 FROM cars`
	var args []any

	if filter.Available != nil {
		query += ` WHERE available = ?`
		args = append(args, boolToInt(*filter.Available))
	}
	query += ` ORDER BY id`

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing cars: %w", err)
	}
	// sql.Rows holds a pool connection — always close it.
	defer rows.Close()

	cars := make([]model.Car, 0, 16)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning car row: %w", err)
		}
		cars = append(cars, *car)
	}

	// rows.Err() catches errors that happened DURING iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating cars: %w", err)
	}

	return cars, nil
}

// Update applies a partial patch to a car. Only non-nil fields of the patch
// become SET clauses; everything else keeps its stored value. updated_at is
// always bumped.
//
// 0 rows affected means the WHERE clause matched nothing — the car doesn't
// exist, and we say so with NotFound rather than silently doing nothing.
func (r *CarRepo) Update(ctx context.Context, id int64, patch model.CarPatch) error {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)

	if patch.Make != nil {
		sets = append(sets, "make = ?")
		args = append(args, *patch.Make)
	}
	if patch.Model != nil {
		sets = append(sets, "model = ?")
		args = append(args, *patch.Model)
	}
	if patch.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *patch.Year)
	}
	if patch.WeeklyRate != nil {
		sets = append(sets, "weekly_rate = ?")
		args = append(args, *patch.WeeklyRate)
	}
	if patch.Available != nil {
		sets = append(sets, "available = ?")
		args = append(args, boolToInt(patch.Available.Bool()))
	}
	if patch.LicensePlate != nil {
		sets = append(sets, "license_plate = ?")
		args = append(args, *patch.LicensePlate)
	}
	if patch.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *patch.ImageURL)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id)

	// The column names come from the fixed list above, never from input,
	// so building the statement with Sprintf is safe here.
	query := fmt.Sprintf(`UPDATE cars SET %s WHERE id = ?`, strings.Join(sets, ", "))

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err, "cars.license_plate") {
			return apperror.Conflict("car",
				fmt.Sprintf("license plate %s already exists", *patch.LicensePlate))
		}
		return fmt.Errorf("sqlite: updating car %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("car", id)
	}

	return nil
}

// Delete removes a car. Same RowsAffected pattern as Update.
func (r *CarRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting car %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("car", id)
	}

	return nil
}

// Count returns the total number of cars in the table.
func (r *CarRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting cars: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, so scanCar can serve
// the single-row and multi-row queries alike.
type scanner interface {
	Scan(dest ...any) error
}

// scanCar reads one cars row, converting the stored 0/1 into a bool.
func scanCar(s scanner) (*model.Car, error) {
	var (
		car       model.Car
		available int
	)
	if err := s.Scan(
		&car.ID,
		&car.Make,
		&car.Model,
		&car.Year,
		&car.WeeklyRate,
		&available,
		&car.LicensePlate,
		&car.ImageURL,
		&car.CreatedAt,
		&car.UpdatedAt,
	); err != nil {
		return nil, err
	}
	car.Available = available != 0
	return &car, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column. SQLite's message format is stable:
// "constraint failed: UNIQUE constraint failed: cars.license_plate".
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}
