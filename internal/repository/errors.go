// Package repository holds the MySQL data access.  Queries are written by
// hand against database/sql; the sentinel errors below let the service
// layer tell failures apart without inspecting SQL errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with a unique key that
// has no more specific sentinel.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user writes that hit the unique email key.
var ErrEmailExists = errors.New("email already exists")

// ErrEventInactive is returned when reserving a seat of a cancelled event.
var ErrEventInactive = errors.New("event is not active")

// ErrNoSeatsAvailable is returned when every seat of the event is held by
// a non-cancelled reservation.
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrAlreadyReserved is returned when the student already holds an
// active reservation for the event.
var ErrAlreadyReserved = errors.New("already reserved")

// isDuplicateKey reports whether err is MySQL error 1062 (ER_DUP_ENTRY).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type scanner interface {
	Scan(dest ...any) error
}
