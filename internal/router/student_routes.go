package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// RegisterStudent mounts seat reservation.  Staff may book on behalf of a
// student.
func RegisterStudent(e *echo.Echo, h Handlers, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roles(model.RoleStudent)...),
		invalidate,
	)
	g.POST("/events/:id/reservations", h.Reservations.Create)
	g.POST("/general-events/:id/reservations", h.GeneralReservations.Create)
}
