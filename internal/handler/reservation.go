package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// ReservationHandler serves the reservation routes of one event family.
// The router mounts one instance per family on its own prefix.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: svc}
}

type createReservationReq struct {
	// StudentID lets staff book for a student; students always book for
	// themselves.
	StudentID *uuid.UUID `json:"student_id"`
}

// hasBody reports whether r carries a body worth binding.  Chunked
// requests report an unknown length, so the content type decides.
func hasBody(r *http.Request) bool {
	if r.ContentLength > 0 {
		return true
	}
	return r.ContentLength < 0 && strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// Create handles POST /v1/{events|general-events}/:id/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req createReservationReq
	if hasBody(c.Request()) {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	studentID := actor.ID
	if req.StudentID != nil && *req.StudentID != actor.ID {
		if !actor.IsStaff() {
			return respondError(c, service.ErrForbidden)
		}
		studentID = *req.StudentID
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Reservations.Create(ctx, studentID, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, res, service.MsgReservationCreated)
}

func (h *ReservationHandler) Get(c echo.Context) error {
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
	res, err := h.Reservations.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !actor.CanManageReservation(res) {
		return respondError(c, service.ErrForbidden)
	}
	return ok(c, http.StatusOK, res, "Reservation found successfully.")
}

// Cancel handles DELETE on a reservation.  Cancelling twice is a soft
// failure, not an error.
func (h *ReservationHandler) Cancel(c echo.Context) error {
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
	res, err := h.Reservations.CancelAs(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	if !res.Cancelled {
		return soft(c, res, res.Message)
	}
	return ok(c, http.StatusOK, res, res.Message)
}

// ListByStudent handles GET /v1/students/:id/reservations?active=.
func (h *ReservationHandler) ListByStudent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	return h.listStudent(c, id)
}

func (h *ReservationHandler) listStudent(c echo.Context, studentID uuid.UUID) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Reservations.ListByStudent(ctx, studentID, activeOnly(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Reservations found successfully.")
}

// MyReservationsHandler lists the caller's reservations of either family.
type MyReservationsHandler struct {
	Families map[string]*ReservationHandler
}

// List handles GET /v1/me/reservations?kind=sport|general&active=.  An
// empty kind returns both families keyed by kind.
func (h *MyReservationsHandler) List(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	if kind := c.QueryParam("kind"); kind != "" {
		fam, known := h.Families[kind]
		if !known {
			return fail(c, http.StatusBadRequest, "kind must be sport or general")
		}
		return fam.listStudent(c, actor.ID)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	out := make(map[string][]model.Reservation, len(h.Families))
	for kind, fam := range h.Families {
		list, err := fam.Reservations.ListByStudent(ctx, actor.ID, activeOnly(c))
		if err != nil {
			return respondError(c, err)
		}
		out[kind] = list
	}
	return ok(c, http.StatusOK, out, "Reservations found successfully.")
}

func activeOnly(c echo.Context) bool {
	v, _ := strconv.ParseBool(c.QueryParam("active"))
	return v
}
