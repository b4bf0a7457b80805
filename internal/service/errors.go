// Package service holds the business rules of the reservation platform.
// Handlers call services, services call repositories through small
// interfaces, and every failure a caller may act on is one of the errors
// below.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

// Entity names the kind of record a NotFoundError refers to.
type Entity string

const (
	EntityUser        Entity = "User"
	EntityStudent     Entity = "Student"
	EntityOrganizer   Entity = "Organizer"
	EntityEvent       Entity = "Event"
	EntityReservation Entity = "Reservation"
	EntityStadium     Entity = "Stadium"
	EntitySport       Entity = "Sport"
	EntityTeam        Entity = "Team"
)

var (
	// ErrNotFound matches every NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists matches every AlreadyExistsError via errors.Is.
	ErrAlreadyExists      = errors.New("already exists")
	ErrNoSeatsAvailable   = errors.New("no seats available")
	ErrEventInactive      = errors.New("event is not active")
	ErrReservationsLoad   = errors.New("failed to load reservations for cancellation")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

type NotFoundError struct {
	Entity Entity
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(e Entity) error { return &NotFoundError{Entity: e} }

// orNotFound translates the repository's ErrNotFound into a typed
// NotFoundError for e and passes other errors through.
func orNotFound(err error, e Entity) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(e)
	}
	return err
}

type AlreadyExistsError struct {
	Msg string
}

func (e *AlreadyExistsError) Error() string { return e.Msg }

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

func alreadyExists(msg string) error { return &AlreadyExistsError{Msg: msg} }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
