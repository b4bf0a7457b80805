package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

type GeneralEventHandler struct {
	Events *service.GeneralEventService
}

func NewGeneralEventHandler(events *service.GeneralEventService) *GeneralEventHandler {
	return &GeneralEventHandler{Events: events}
}

type generalEventReq struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Capacity    int       `json:"capacity" validate:"required,gt=0"`
	addressReq
}

func (r generalEventReq) input() service.GeneralEventInput {
	return service.GeneralEventInput{
		Name:        r.Name,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Capacity:    r.Capacity,
		Address:     r.model(),
	}
}

func (h *GeneralEventHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Events.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Events found successfully.")
}

func (h *GeneralEventHandler) ListActive(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Events.ListActive(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Events found successfully.")
}

func (h *GeneralEventHandler) ListByOrganizer(c echo.Context) error {
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

func (h *GeneralEventHandler) Get(c echo.Context) error {
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

func (h *GeneralEventHandler) Availability(c echo.Context) error {
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

func (h *GeneralEventHandler) Create(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	var req generalEventReq
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

func (h *GeneralEventHandler) Update(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req generalEventReq
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

func (h *GeneralEventHandler) Cancel(c echo.Context) error {
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

func (h *GeneralEventHandler) Reservations(c echo.Context) error {
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
