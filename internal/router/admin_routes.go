package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
)

// RegisterAdmin mounts the venue catalog writes and user administration.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(staff...),
		invalidate,
	)
	g.POST("/stadiums", h.Venues.CreateStadium)
	g.PUT("/stadiums/:id", h.Venues.UpdateStadium)
	g.POST("/sports", h.Venues.CreateSport)
	g.PUT("/sports/:id", h.Venues.UpdateSport)
	g.POST("/teams", h.Venues.CreateTeam)
	g.PUT("/teams/:id", h.Venues.UpdateTeam)

	g.GET("/users", h.Users.List)
	g.POST("/users", h.Users.Create)
	g.GET("/users/:id", h.Users.Get)
	g.PATCH("/users/:id/status", h.Users.ToggleStatus)

	g.GET("/students/:id/reservations", h.Reservations.ListByStudent)
	g.GET("/students/:id/general-reservations", h.GeneralReservations.ListByStudent)
}
