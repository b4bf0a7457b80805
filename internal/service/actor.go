package service

import (
	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsStaff() bool { return a.Role == model.RoleAdmin || a.Role == model.RoleSuperAdmin }

// CanManageEvent: staff, or the organizer who owns the event.
func (a Actor) CanManageEvent(organizerID uuid.UUID) bool {
	return a.IsStaff() || (a.Role == model.RoleOrganizer && a.ID == organizerID)
}

// CanManageReservation: staff, the student holding it, or the organizer of
// its event.
func (a Actor) CanManageReservation(r *model.Reservation) bool {
	return a.IsStaff() || a.ID == r.StudentID || (a.Role == model.RoleOrganizer && a.ID == r.OrganizerID)
}
