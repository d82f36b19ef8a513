// Package model — rental entity and its status state machine.
package model

import "time"

// RentalStatus is the lifecycle state of an active rental agreement.
//
// STATE MACHINE:
//
//	pending → active    (keys handed over)
//	pending → cancelled
//	active  → completed (car returned)
//	active  → cancelled
//
// completed and cancelled are terminal.
type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending:   {RentalActive, RentalCancelled},
	RentalActive:    {RentalCompleted, RentalCancelled},
	RentalCompleted: {},
	RentalCancelled: {},
}

// Valid reports whether s is a known rental status.
func (s RentalStatus) Valid() bool {
	_, ok := rentalTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to `to` is allowed.
// Same-status transitions are allowed for idempotency.
func (s RentalStatus) CanTransition(to RentalStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range rentalTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Rental is a rental agreement — a booking that turned into a real hire.
//
// Like Booking, the UserName/CarMake/CarModel fields are read-only join
// columns for the admin list view.
type Rental struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	CarID     int64        `json:"carId"`
	StartDate string       `json:"startDate"`
	EndDate   string       `json:"endDate"`
	TotalCost float64      `json:"totalCost"`
	Status    RentalStatus `json:"status"`
	UserName  string       `json:"userName,omitempty"`
	CarMake   string       `json:"carMake,omitempty"`
	CarModel  string       `json:"carModel,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
