package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// compile-time check that *EnquiryRepo implements repository.EnquiryRepository
var _ repository.EnquiryRepository = (*EnquiryRepo)(nil)

// EnquiryRepo is the SQLite implementation of repository.EnquiryRepository.
// Enquiries are append-only — the contact form creates them, the admin reads
// them, nobody edits them.
type EnquiryRepo struct {
	conn *sql.DB
}

// NewEnquiryRepo creates an EnquiryRepo sharing the given database handle.
func NewEnquiryRepo(db *DB) *EnquiryRepo {
	return &EnquiryRepo{conn: db.conn}
}

// Create persists a contact-form submission.
func (r *EnquiryRepo) Create(ctx context.Context, enquiry *model.Enquiry) error {
	enquiry.CreatedAt = time.Now().UTC()

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO enquiries (name, phone, email, rental_duration, vehicle_interest, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		enquiry.Name,
		enquiry.Phone,
		enquiry.Email,
		enquiry.RentalDuration,
		enquiry.VehicleInterest,
		enquiry.Message,
		enquiry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating enquiry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new enquiry id: %w", err)
	}
	enquiry.ID = id

	return nil
}

// List returns all enquiries, newest first.
func (r *EnquiryRepo) List(ctx context.Context) ([]model.Enquiry, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, phone, email, rental_duration, vehicle_interest, message, created_at
		 FROM enquiries ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing enquiries: %w", err)
	}
	defer rows.Close()

	enquiries := make([]model.Enquiry, 0, 16)
	for rows.Next() {
		var e model.Enquiry
		if err := rows.Scan(&e.ID, &e.Name, &e.Phone, &e.Email,
			&e.RentalDuration, &e.VehicleInterest, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning enquiry row: %w", err)
		}
		enquiries = append(enquiries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating enquiries: %w", err)
	}

	return enquiries, nil
}
