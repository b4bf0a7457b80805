package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/repository"
)

type GeneralEventStore interface {
	Create(ctx context.Context, e *model.GeneralEvent) error
	Update(ctx context.Context, e *model.GeneralEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.GeneralEvent, error)
	List(ctx context.Context, f repository.EventFilter) ([]model.GeneralEvent, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type GeneralEventInput struct {
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
	Address     model.Address
}

func (in GeneralEventInput) validate() error {
	if err := validateWindow(in.Name, in.StartsAt, in.EndsAt); err != nil {
		return err
	}
	if in.Capacity <= 0 {
		return invalid("capacity must be positive")
	}
	return nil
}

// GeneralEventService runs the lifecycle of general events, which need no
// venue catalog.
type GeneralEventService struct {
	events       GeneralEventStore
	users        UserLookup
	reservations *ReservationService
}

func NewGeneralEventService(events GeneralEventStore, users UserLookup, reservations *ReservationService) *GeneralEventService {
	return &GeneralEventService{events: events, users: users, reservations: reservations}
}

func (s *GeneralEventService) Create(ctx context.Context, organizerID uuid.UUID, in GeneralEventInput) (*model.GeneralEvent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := requireOrganizer(ctx, s.users, organizerID); err != nil {
		return nil, err
	}
	e := &model.GeneralEvent{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartsAt:    in.StartsAt.UTC(),
		EndsAt:      in.EndsAt.UTC(),
		Capacity:    in.Capacity,
		Address:     in.Address,
		OrganizerID: organizerID,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.Get(ctx, e.ID)
}

// Update may shrink capacity below the active reservations; existing seats
// are kept and the event simply reports no availability.
func (s *GeneralEventService) Update(ctx context.Context, actor Actor, id uuid.UUID, in GeneralEventInput) (*model.GeneralEvent, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageEvent(e.OrganizerID) {
		return nil, ErrForbidden
	}
	e.Name, e.Description = strings.TrimSpace(in.Name), in.Description
	e.StartsAt, e.EndsAt = in.StartsAt.UTC(), in.EndsAt.UTC()
	e.Capacity, e.Address = in.Capacity, in.Address
	if err := s.events.Update(ctx, e); err != nil {
		return nil, orNotFound(err, EntityEvent)
	}
	return s.Get(ctx, id)
}

func (s *GeneralEventService) Get(ctx context.Context, id uuid.UUID) (*model.GeneralEvent, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, EntityEvent)
	}
	return e, nil
}

func (s *GeneralEventService) ListAll(ctx context.Context) ([]model.GeneralEvent, error) {
	return s.events.List(ctx, repository.EventFilter{})
}

func (s *GeneralEventService) ListActive(ctx context.Context) ([]model.GeneralEvent, error) {
	return s.events.List(ctx, repository.EventFilter{ActiveOnly: true})
}

func (s *GeneralEventService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]model.GeneralEvent, error) {
	if err := requireOrganizer(ctx, s.users, organizerID); err != nil {
		return nil, err
	}
	return s.events.List(ctx, repository.EventFilter{OrganizerID: &organizerID})
}

func (s *GeneralEventService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (CascadeResult, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return CascadeResult{}, err
	}
	if !actor.CanManageEvent(e.OrganizerID) {
		return CascadeResult{}, ErrForbidden
	}
	return cancelEvent(ctx, s.events, s.reservations, id)
}

func (s *GeneralEventService) Reservations() *ReservationService { return s.reservations }
