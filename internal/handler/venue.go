package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// VenueHandler exposes stadiums, sports and teams.  Reads are public and
// writes are restricted to staff by the router.
type VenueHandler struct {
	Venues *service.VenueService
}

func NewVenueHandler(venues *service.VenueService) *VenueHandler {
	return &VenueHandler{Venues: venues}
}

type stadiumReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	addressReq
}

type sportReq struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type teamReq struct {
	Name    string    `json:"name" validate:"required,max=255"`
	SportID uuid.UUID `json:"sport_id" validate:"required"`
}

func (h *VenueHandler) ListStadiums(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Venues.ListStadiums(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Stadiums found successfully.")
}

func (h *VenueHandler) GetStadium(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.Venues.GetStadium(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, st, "Stadium found successfully.")
}

func (h *VenueHandler) CreateStadium(c echo.Context) error {
	var req stadiumReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.Venues.CreateStadium(ctx, service.StadiumInput{Name: req.Name, Capacity: req.Capacity, Address: req.model()})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, st, "Stadium created successfully.")
}

func (h *VenueHandler) UpdateStadium(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req stadiumReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.Venues.UpdateStadium(ctx, id, service.StadiumInput{Name: req.Name, Capacity: req.Capacity, Address: req.model()})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, st, "Stadium updated successfully.")
}

func (h *VenueHandler) ListSports(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Venues.ListSports(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Sports found successfully.")
}

func (h *VenueHandler) GetSport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sp, err := h.Venues.GetSport(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, sp, "Sport found successfully.")
}

func (h *VenueHandler) CreateSport(c echo.Context) error {
	var req sportReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sp, err := h.Venues.CreateSport(ctx, service.SportInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, sp, "Sport created successfully.")
}

func (h *VenueHandler) UpdateSport(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req sportReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	sp, err := h.Venues.UpdateSport(ctx, id, service.SportInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, sp, "Sport updated successfully.")
}

// ListTeams handles GET /v1/teams?sport_id=.
func (h *VenueHandler) ListTeams(c echo.Context) error {
	var sportID *uuid.UUID
	if raw := c.QueryParam("sport_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid sport_id")
		}
		sportID = &id
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Venues.ListTeams(ctx, sportID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, list, "Teams found successfully.")
}

func (h *VenueHandler) GetTeam(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Venues.GetTeam(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, t, "Team found successfully.")
}

func (h *VenueHandler) CreateTeam(c echo.Context) error {
	var req teamReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Venues.CreateTeam(ctx, service.TeamInput{Name: req.Name, SportID: req.SportID})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, t, "Team created successfully.")
}

func (h *VenueHandler) UpdateTeam(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req teamReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Venues.UpdateTeam(ctx, id, service.TeamInput{Name: req.Name, SportID: req.SportID})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, t, "Team updated successfully.")
}
