package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// RegisterOrganizer mounts event management.  Ownership of each event is
// checked by the services, so organizers only touch their own events while
// staff may act on any.
func RegisterOrganizer(e *echo.Echo, h Handlers, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roles(model.RoleOrganizer)...),
		invalidate,
	)
	g.POST("/events", h.Events.Create)
	g.PUT("/events/:id", h.Events.Update)
	g.POST("/events/:id/cancel", h.Events.Cancel)
	g.GET("/events/:id/reservations", h.Events.Reservations)
	g.GET("/organizers/:id/events", h.Events.ListByOrganizer)

	g.POST("/general-events", h.GeneralEvents.Create)
	g.PUT("/general-events/:id", h.GeneralEvents.Update)
	g.POST("/general-events/:id/cancel", h.GeneralEvents.Cancel)
	g.GET("/general-events/:id/reservations", h.GeneralEvents.Reservations)
	g.GET("/organizers/:id/general-events", h.GeneralEvents.ListByOrganizer)
}
