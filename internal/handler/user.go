package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler { return &UserHandler{Users: users} }

type createUserReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=SUPERADMIN ADMIN ORGANIZER STUDENT"`
	addressReq
}

type updateUserReq struct {
	Name     string `json:"name" validate:"omitempty,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=SUPERADMIN ADMIN ORGANIZER STUDENT"`
	addressReq
}

// List handles GET /v1/users?role=.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx, c.QueryParam("role"))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, users, "Users found successfully.")
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, u, "User found successfully.")
}

// Create lets staff add organizers and other staff.
func (h *UserHandler) Create(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	var req createUserReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.Register(ctx, &actor, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Address:  req.model(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, u, "User created successfully.")
}

// Update handles PUT /v1/users/:id for the user themselves or staff.
func (h *UserHandler) Update(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.Update(ctx, actor, id, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Address:  req.model(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, u, "User updated successfully.")
}

func (h *UserHandler) ToggleStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.ToggleStatus(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, u, "User status toggled successfully.")
}
