package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

// EventStore persists sport events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, f repository.EventFilter) ([]model.Event, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type EventInput struct {
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	StadiumID   uuid.UUID
	SportID     uuid.UUID
	TeamOneID   uuid.UUID
	TeamTwoID   uuid.UUID
}

// EventService runs the lifecycle of sport events.
type EventService struct {
	events       EventStore
	venues       *VenueService
	users        UserLookup
	reservations *ReservationService
}

func NewEventService(events EventStore, venues *VenueService, users UserLookup, reservations *ReservationService) *EventService {
	return &EventService{events: events, venues: venues, users: users, reservations: reservations}
}

func validateWindow(name string, start, end time.Time) error {
	if strings.TrimSpace(name) == "" {
		return invalid("event name is required")
	}
	if start.IsZero() || !end.After(start) {
		return invalid("event must end after it starts")
	}
	return nil
}

// checkRefs verifies the stadium, the sport and two distinct teams of
// that sport.
func (s *EventService) checkRefs(ctx context.Context, in EventInput) error {
	if _, err := s.venues.GetStadium(ctx, in.StadiumID); err != nil {
		return err
	}
	if _, err := s.venues.GetSport(ctx, in.SportID); err != nil {
		return err
	}
	if in.TeamOneID == in.TeamTwoID {
		return invalid("an event needs two different teams")
	}
	for _, id := range []uuid.UUID{in.TeamOneID, in.TeamTwoID} {
		t, err := s.venues.GetTeam(ctx, id)
		if err != nil {
			return err
		}
		if t.SportID != in.SportID {
			return invalid("team %s does not play this sport", t.Name)
		}
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, organizerID uuid.UUID, in EventInput) (*model.Event, error) {
	if err := validateWindow(in.Name, in.StartsAt, in.EndsAt); err != nil {
		return nil, err
	}
	if err := requireOrganizer(ctx, s.users, organizerID); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	e := &model.Event{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		OrganizerID: organizerID,
		StadiumID:   in.StadiumID,
		SportID:     in.SportID,
		TeamOneID:   in.TeamOneID,
		TeamTwoID:   in.TeamTwoID,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.Get(ctx, e.ID)
}

func (s *EventService) Update(ctx context.Context, actor Actor, id uuid.UUID, in EventInput) (*model.Event, error) {
	if err := validateWindow(in.Name, in.StartsAt, in.EndsAt); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageEvent(e.OrganizerID) {
		return nil, ErrForbidden
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}
	e.Name, e.Description = strings.TrimSpace(in.Name), in.Description
	e.StartsAt, e.EndsAt = in.StartsAt.UTC(), in.EndsAt.UTC()
	e.StadiumID, e.SportID, e.TeamOneID, e.TeamTwoID = in.StadiumID, in.SportID, in.TeamOneID, in.TeamTwoID
	if err := s.events.Update(ctx, e); err != nil {
		return nil, orNotFound(err, EntityEvent)
	}
	return s.Get(ctx, id)
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityEvent)
	}
	return e, nil
}

func (s *EventService) ListAll(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx, repository.EventFilter{})
}

func (s *EventService) ListActive(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx, repository.EventFilter{ActiveOnly: true})
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]model.Event, error) {
	if err := requireOrganizer(ctx, s.users, organizerID); err != nil {
		return nil, err
	}
	return s.events.List(ctx, repository.EventFilter{OrganizerID: &organizerID})
}

// Cancel deactivates the event and cancels all of its reservations.
// Cancelling an already inactive event re-runs the cascade, which only
// reports the reservations as already cancelled.
func (s *EventService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (CascadeResult, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return CascadeResult{}, err
	}
	if !actor.CanManageEvent(e.OrganizerID) {
		return CascadeResult{}, ErrForbidden
	}
	return cancelEvent(ctx, s.events, s.reservations, id)
}

// Reservations exposes the reservation service of sport events.
func (s *EventService) Reservations() *ReservationService { return s.reservations }
