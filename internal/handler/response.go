package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// requestTimeout bounds the database work of one request.
const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func ok(c echo.Context, status int, data any, msg string) error {
	return c.JSON(status, Response{Data: data, Message: msg, Success: true})
}

// soft reports a benign outcome such as an already cancelled reservation:
// HTTP 200 with success=false.
func soft(c echo.Context, data any, msg string) error {
	return c.JSON(http.StatusOK, Response{Data: data, Message: msg, Success: false})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Message: msg, Success: false})
}

// respondError maps service errors to HTTP statuses.  Unknown errors are
// logged and hidden behind a generic 500.
func respondError(c echo.Context, err error) error {
	var (
		nf *service.NotFoundError
		ae *service.AlreadyExistsError
	)
	switch {
	case errors.As(err, &nf):
		return fail(c, http.StatusNotFound, nf.Error())
	case errors.As(err, &ae):
		return fail(c, http.StatusConflict, ae.Error())
	case errors.Is(err, service.ErrNoSeatsAvailable):
		return fail(c, http.StatusConflict, "No seats available")
	case errors.Is(err, service.ErrEventInactive):
		return fail(c, http.StatusConflict, "Event is not active")
	case errors.Is(err, service.ErrForbidden):
		return fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInactiveUser):
		return fail(c, http.StatusForbidden, "user is inactive")
	case errors.Is(err, service.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return fail(c, http.StatusGatewayTimeout, "request timed out")
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
}

// bind decodes the body into dst and validates it.  Failures come back as
// *echo.HTTPError for ErrorHandler to write.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return echo.NewHTTPError(http.StatusBadRequest, validationMessage(ve))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// ErrorHandler replaces echo's default so that errors returned by handlers
// and middleware, unknown routes included, use the Response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		if werr := respondError(c, err); werr != nil {
			c.Logger().Error(werr)
		}
		return
	}
	msg, isString := he.Message.(string)
	if !isString {
		msg = http.StatusText(he.Code)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = fail(c, he.Code, msg)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// currentActor reads the identity stored by middleware.JWTAuth.
func currentActor(c echo.Context) (service.Actor, bool) {
	s, _ := c.Get(middleware.ContextUserID).(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return service.Actor{}, false
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return service.Actor{ID: id, Role: role}, true
}

func unauthorized(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, "unauthorized")
}
