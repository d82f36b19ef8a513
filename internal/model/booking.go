// Package model — booking entity and its status state machine.
package model

import "time"

// BookingStatus is the lifecycle state of a booking request.
//
// STATE MACHINE:
//
//	pending → confirmed
//	pending → cancelled
//
// confirmed and cancelled are terminal — once an admin has decided, the
// decision stands. The allowed transitions are encoded as a directed graph
// in bookingTransitions so the rule lives in exactly one place.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {},
	BookingCancelled: {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to `to` is allowed.
// A no-op transition (same status) is always allowed — it makes status
// updates idempotent, which matters when the admin double-clicks a button.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Booking is a prospective rental request made from the public site.
//
// Reference is a short, URL-safe code (xid) that customers can quote on the
// phone — friendlier than "booking number 7" and unguessable, unlike the
// auto-increment ID.
//
// UserName, CarMake, and CarModel are denormalised join columns filled in by
// the repository's list query. They exist because the admin console renders
// bookings as "Jane Smith — Toyota Yaris" and we'd rather do one JOIN than
// N+1 lookups. They are never written back to the bookings table.
type Booking struct {
	ID        int64         `json:"id"`
	Reference string        `json:"reference"`
	UserID    int64         `json:"userId"`
	CarID     int64         `json:"carId"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	TotalCost float64       `json:"totalCost"`
	Status    BookingStatus `json:"status"`
	UserName  string        `json:"userName,omitempty"`
	CarMake   string        `json:"carMake,omitempty"`
	CarModel  string        `json:"carModel,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
