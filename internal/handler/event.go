package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// EventHandler serves sport events.
type EventHandler struct {
	Events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{Events: events}
}

type eventReq struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	StadiumID   uuid.UUID `json:"stadium_id" validate:"required"`
	SportID     uuid.UUID `json:"sport_id" validate:"required"`
	TeamOneID   uuid.UUID `json:"team_one_id" validate:"required"`
	TeamTwoID   uuid.UUID `json:"team_two_id" validate:"required"`
}

func (r eventReq) input() service.EventInput {
	return service.EventInput{
		Name:        r.Name,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		StadiumID:   r.StadiumID,
		SportID:     r.SportID,
		TeamOneID:   r.TeamOneID,
		TeamTwoID:   r.TeamTwoID,
	}
}

type cancelEventResp struct {
	EventID          uuid.UUID `json:"event_id"`
	Cancelled        bool      `json:"cancelled"`
	Reservations     int       `json:"reservations_cancelled"`
	AlreadyCancelled int       `json:"reservations_already_cancelled"`
}

func cascadeResp(id uuid.UUID, r service.CascadeResult) cancelEventResp {
	return cancelEventResp{EventID: id, Cancelled: true, Reservations: r.Cancelled, AlreadyCancelled: r.AlreadyCancelled}
}

func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Events.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Events found successfully.")
}

func (h *EventHandler) ListActive(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Events.ListActive(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Events found successfully.")
}

// ListByOrganizer handles GET /v1/organizers/:id/events.
func (h *EventHandler) ListByOrganizer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Events.ListByOrganizer(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Events found successfully.")
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, err := h.Events.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, e, "Event found successfully.")
}

func (h *EventHandler) Availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	a, err := h.Events.Reservations().Availability(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, a, "Availability found successfully.")
}

// Create registers an event owned by the calling organizer.
func (h *EventHandler) Create(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	var req eventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, err := h.Events.Create(ctx, actor.ID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, e, "Event created successfully.")
}

func (h *EventHandler) Update(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req eventReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, err := h.Events.Update(ctx, actor, id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, e, "Event updated successfully.")
}

// Cancel deactivates the event and cancels its reservations, emailing
// each student whose seat was released.
func (h *EventHandler) Cancel(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Events.Cancel(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, cascadeResp(id, res), "Event cancelled successfully.")
}

// Reservations handles GET /v1/events/:id/reservations?active=.
func (h *EventHandler) Reservations(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	e, err := h.Events.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !actor.CanManageEvent(e.OrganizerID) {
		return respondError(c, service.ErrForbidden)
	}
	list, err := h.Events.Reservations().ListByEvent(ctx, id, activeOnly(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Reservations found successfully.")
}
