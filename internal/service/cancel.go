package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

const cascadeTimeout = 2 * time.Minute

type deactivator interface {
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// cancelEvent deactivates an event and then cancels its reservations
// through the reservation service of the same family.  Deactivation comes
// first: Reserve locks the same row and refuses inactive events, so no
// reservation can slip in behind the cascade.
//
// The cascade runs detached from the caller's context: once started it
// must not stop between deactivation and the last reservation.
func cancelEvent(ctx context.Context, events deactivator, reservations *ReservationService, id uuid.UUID) (CascadeResult, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cascadeTimeout)
	defer cancel()
	if err := events.Deactivate(ctx, id); err != nil {
		return CascadeResult{}, orNotFound(err, EntityEvent)
	}
	out, err := reservations.CancelAllForEvent(ctx, id)
	if err != nil {
		return out, fmt.Errorf("cancel event %s: %w", id, err)
	}
	return out, nil
}

// requireOrganizer fails with NotFound(Organizer) unless id is a known
// organizer or staff account.
func requireOrganizer(ctx context.Context, users UserLookup, id uuid.UUID) error {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return orNotFound(err, EntityOrganizer)
	}
	if u.Role == model.RoleStudent {
		return notFound(EntityOrganizer)
	}
	return nil
}
