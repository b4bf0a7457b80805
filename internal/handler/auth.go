package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// AuthHandler serves sign-up, sessions and password reset.
type AuthHandler struct {
	Auth  *service.AuthService
	Users *service.UserService
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{Auth: auth, Users: users}
}

type addressReq struct {
	Line1   string `json:"address_line1" validate:"max=255"`
	Line2   string `json:"address_line2" validate:"max=255"`
	City    string `json:"city" validate:"max=100"`
	State   string `json:"state" validate:"max=100"`
	ZipCode string `json:"zip_code" validate:"max=20"`
}

func (a addressReq) model() model.Address {
	return model.Address{Line1: a.Line1, Line2: a.Line2, City: a.City, State: a.State, ZipCode: a.ZipCode}
}

type registerReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	addressReq
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required,numeric,min=6,max=8"`
	Password string `json:"password" validate:"required,min=8"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User    *model.User `json:"user"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

func sessionResp(s *service.Session) authResp {
	return authResp{
		User:    s.User,
		Access:  tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
		Refresh: tokenPart{Token: s.Refresh.Raw, Expires: s.Refresh.Exp},
	}
}

// Register creates a student account and returns a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Auth.Register(ctx, service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.model(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusCreated, sessionResp(s), "User created successfully.")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, sessionResp(s), "Logged in successfully.")
}

// Refresh rotates the refresh token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, sessionResp(s), "Token refreshed.")
}

// Logout revokes the refresh token in the body, or every session of the
// caller when the body has none.
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	var req logoutReq
	_ = c.Bind(&req)
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Auth.Logout(ctx, actor.ID, strings.TrimSpace(req.RefreshToken)); err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, nil, "Logged out.")
}

func (h *AuthHandler) Me(c echo.Context) error {
	actor, found := currentActor(c)
	if !found {
		return unauthorized(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Users.Get(ctx, actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, u, "User found successfully.")
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	// NOTIFY_DRIVER=smtp delivers inline
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()
	if err := h.Users.SendPasswordReset(ctx, req.Email); err != nil {
		return respondError(c, err)
	}
	return ok(c, http.StatusOK, true, service.MsgPasswordResetSent)
}

// ResetPassword answers a wrong token with a soft failure.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	done, err := h.Users.ResetPassword(ctx, req.Email, req.Token, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	if !done {
		return soft(c, false, service.MsgInvalidResetToken)
	}
	return ok(c, http.StatusOK, true, service.MsgPasswordUpdated)
}
