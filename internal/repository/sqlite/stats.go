package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// compile-time check that *StatsRepo implements repository.StatsRepository
var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo computes the admin dashboard and reports aggregates.
//
// All numbers come straight from SQL — no in-process caching. The admin
// console is the only consumer and one person looking at a dashboard does
// not need a cache in front of a local SQLite file.
type StatsRepo struct {
	conn *sql.DB
}

// NewStatsRepo creates a StatsRepo sharing the given database handle.
func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{conn: db.conn}
}

// Stats returns the dashboard summary: revenue, active bookings, fleet
// availability, and the five most recent bookings.
//
// "revenue" counts completed rentals only — money we have actually collected.
// "pending payments" counts confirmed bookings that haven't turned into a
// rental yet.
func (r *StatsRepo) Stats(ctx context.Context) (*repository.Stats, error) {
	var s repository.Stats

	err := r.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total_cost), 0) FROM rentals WHERE status = 'completed'),
			(SELECT COUNT(*) FROM bookings WHERE status IN ('pending', 'confirmed')),
			(SELECT COUNT(*) FROM cars WHERE available = 1),
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed')
	`).Scan(&s.TotalRevenue, &s.ActiveBookings, &s.AvailableCars, &s.PendingPayments)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing stats: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT b.id, b.reference, b.user_id, b.car_id, b.start_date, b.end_date,
		        b.total_cost, b.status, b.created_at, b.updated_at,
		        u.name, c.make, c.model
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 JOIN cars  c ON c.id = b.car_id
		 ORDER BY b.created_at DESC
		 LIMIT 5`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: fetching recent bookings: %w", err)
	}
	defer rows.Close()

	s.RecentBookings = make([]model.Booking, 0, 5)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.Reference, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate,
			&b.TotalCost, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.UserName, &b.CarMake, &b.CarModel); err != nil {
			return nil, fmt.Errorf("sqlite: scanning recent booking: %w", err)
		}
		s.RecentBookings = append(s.RecentBookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recent bookings: %w", err)
	}

	return &s, nil
}

// Report returns the aggregate view behind the admin reports page.
//
// Growth figures compare the last 30 days against the 30 days before that.
// Rental duration is averaged over rentals whose dates parse — dates are
// stored as ISO-8601 text, so julianday() handles the arithmetic.
func (r *StatsRepo) Report(ctx context.Context) (*repository.Report, error) {
	var rep repository.Report

	err := r.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total_cost), 0) FROM rentals WHERE status = 'completed'),
			(SELECT COALESCE(SUM(total_cost), 0) FROM rentals
			 WHERE status = 'completed' AND created_at >= datetime('now', '-30 days')),
			(SELECT COUNT(*) FROM rentals),
			(SELECT COUNT(*) FROM rentals WHERE status = 'active'),
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM cars WHERE available = 1),
			(SELECT COALESCE(AVG(julianday(end_date) - julianday(start_date)), 0) FROM rentals)
	`).Scan(
		&rep.TotalRevenue,
		&rep.MonthlyRevenue,
		&rep.TotalRentals,
		&rep.ActiveRentals,
		&rep.TotalCars,
		&rep.AvailableCars,
		&rep.AverageRentalDuration,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing report: %w", err)
	}

	var prevRevenue float64
	var prevRentals int
	err = r.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(total_cost), 0) FROM rentals
			 WHERE status = 'completed'
			   AND created_at >= datetime('now', '-60 days')
			   AND created_at <  datetime('now', '-30 days')),
			(SELECT COUNT(*) FROM rentals
			 WHERE created_at >= datetime('now', '-60 days')
			   AND created_at <  datetime('now', '-30 days'))
	`).Scan(&prevRevenue, &prevRentals)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing previous period: %w", err)
	}

	var monthRentals int
	err = r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE created_at >= datetime('now', '-30 days')`,
	).Scan(&monthRentals)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting monthly rentals: %w", err)
	}

	rep.RevenueGrowth = growthPercent(rep.MonthlyRevenue, prevRevenue)
	rep.RentalGrowth = growthPercent(float64(monthRentals), float64(prevRentals))

	return &rep, nil
}

// growthPercent returns the percentage change from prev to current.
// A previous period of zero yields 0 rather than a division blow-up —
// "infinite growth" is not a useful dashboard number.
func growthPercent(current, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (current - prev) / prev * 100
}
