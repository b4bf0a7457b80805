package model

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is a student's claim on one seat of an event.  Sport and
// general reservations share this shape and live in separate tables.
//
// Fields:
//
//	ID           – random UUID primary key.
//	EventID      – reserved event.
//	StudentID    – user holding the seat.
//	SeatNumber   – label issued at creation, unique per event.
//	IsCancelled  – one-way flag; rows are never deleted.
//	EventName, StudentName, StudentEmail, OrganizerID – filled by joins.
type Reservation struct {
	ID           uuid.UUID `json:"id"`
	EventID      uuid.UUID `json:"event_id"`
	EventName    string    `json:"event_name"`
	StudentID    uuid.UUID `json:"student_id"`
	StudentName  string    `json:"student_name,omitempty"`
	StudentEmail string    `json:"student_email,omitempty"`
	OrganizerID  uuid.UUID `json:"-"`
	SeatNumber   string    `json:"seat_number"`
	IsCancelled  bool      `json:"is_cancelled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
