package model

import (
	"time"

	"github.com/google/uuid"
)

// Event is a sport event.  It takes place in a stadium whose capacity
// bounds its reservations and opposes two teams of the same sport.
//
// Capacity, Reserved and AvailableSeats are projections: capacity comes
// from the stadium and Reserved counts the non-cancelled reservations at
// read time.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	IsActive       bool      `json:"is_active"`
	OrganizerID    uuid.UUID `json:"organizer_id"`
	StadiumID      uuid.UUID `json:"stadium_id"`
	StadiumName    string    `json:"stadium_name"`
	SportID        uuid.UUID `json:"sport_id"`
	SportName      string    `json:"sport_name"`
	TeamOneID      uuid.UUID `json:"team_one_id"`
	TeamOneName    string    `json:"team_one_name"`
	TeamTwoID      uuid.UUID `json:"team_two_id"`
	TeamTwoName    string    `json:"team_two_name"`
	Capacity       int       `json:"capacity"`
	Reserved       int       `json:"reserved"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GeneralEvent carries its own capacity and address.
type GeneralEvent struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	IsActive       bool      `json:"is_active"`
	Capacity       int       `json:"capacity"`
	Reserved       int       `json:"reserved"`
	AvailableSeats int       `json:"available_seats"`
	Address        Address   `json:"address"`
	OrganizerID    uuid.UUID `json:"organizer_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Availability is the live seat arithmetic of one event.
type Availability struct {
	EventID   uuid.UUID `json:"event_id"`
	Capacity  int       `json:"capacity"`
	Reserved  int       `json:"reserved"`
	Available int       `json:"available"`
}

// NewAvailability derives Available from capacity and the active count.
func NewAvailability(eventID uuid.UUID, capacity, reserved int) Availability {
	return Availability{EventID: eventID, Capacity: capacity, Reserved: reserved, Available: SeatsLeft(capacity, reserved)}
}

// SeatsLeft never goes below zero even if a stadium shrank after
// reservations were made.
func SeatsLeft(capacity, reserved int) int {
	if n := capacity - reserved; n > 0 {
		return n
	}
	return 0
}
