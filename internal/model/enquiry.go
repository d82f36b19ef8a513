package model

import "time"

// Enquiry is a contact-form submission from a prospective customer.
//
// Only Name and Phone are required — the public contact form treats everything
// else as optional, and we'd rather capture a lead with two fields than lose
// one over a blank email box. The snake_case JSON tags on RentalDuration and
// VehicleInterest match what the existing contact form posts.
type Enquiry struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	RentalDuration  string    `json:"rental_duration,omitempty"`
	VehicleInterest string    `json:"vehicle_interest,omitempty"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
