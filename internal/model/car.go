// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Car represents a rentable vehicle in the fleet.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. The frontend expects camelCase field names
// (weeklyRate, licensePlate), so the tags translate between Go's exported
// names and the wire format.
//
// AVAILABLE IS A REAL BOOL HERE:
// The database stores availability as an INTEGER 0/1 (SQLite has no boolean type).
// That conversion happens entirely in the repository layer — everywhere else in
// the app, and on the wire, `available` is a genuine boolean.
type Car struct {
	ID           int64     `json:"id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	WeeklyRate   float64   `json:"weeklyRate"`
	Available    bool      `json:"available"`
	LicensePlate string    `json:"licensePlate"`
	ImageURL     string    `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CarPatch describes a partial update to a car. Nil fields are left untouched.
//
// WHY POINTER FIELDS?
// JSON has three distinct cases for an optional field: absent, null, and a value.
// With plain value fields we couldn't tell "not supplied" (leave the column alone)
// apart from "supplied as the zero value" (set it to 0 / "" / false).
// A nil pointer means the caller didn't send the field at all.
type CarPatch struct {
	Make         *string  `json:"make"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	WeeklyRate   *float64 `json:"weeklyRate"`
	Available    *Flag    `json:"available"`
	LicensePlate *string  `json:"licensePlate"`
	ImageURL     *string  `json:"imageUrl"`
}

// Flag is a boolean that tolerates the loose representations JavaScript
// clients actually send: true/false, "true"/"false", "1"/"0", 1/0.
//
// The original admin frontend is not consistent about this — some forms send
// a real boolean, others send the string value of a checkbox. Rather than
// reject half the requests, we normalise at the JSON boundary and the rest
// of the app only ever sees a bool.
type Flag bool

// UnmarshalJSON accepts bool, string, and number encodings of a boolean.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch string(data) {
	case "true", `"true"`, "1", `"1"`:
		*f = true
		return nil
	case "false", `"false"`, "0", `"0"`:
		*f = false
		return nil
	}
	return fmt.Errorf("model: %s is not a recognised boolean value", data)
}

// MarshalJSON always emits a plain JSON boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool { return bool(f) }
