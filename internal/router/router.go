// Package router mounts the HTTP API on an echo instance, one function per
// audience.  Every audience shares the same /v1 prefix and is told apart by
// the middleware on its group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticket-reservation/internal/config"
	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Health              *handler.HealthHandler
	Auth                *handler.AuthHandler
	Users               *handler.UserHandler
	Venues              *handler.VenueHandler
	Events              *handler.EventHandler
	GeneralEvents       *handler.GeneralEventHandler
	Reservations        *handler.ReservationHandler
	GeneralReservations *handler.ReservationHandler
	MyReservations      *handler.MyReservationsHandler
}

// Deps carries what the middleware needs.  A nil Redis disables caching
// and rate limiting.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

var staff = []string{model.RoleAdmin, model.RoleSuperAdmin}

func roles(extra ...string) []string { return append(extra, staff...) }

// RegisterRoutes mounts the whole API.
func RegisterRoutes(e *echo.Echo, h Handlers, d Deps) {
	e.GET("/healthz", h.Health.Health)
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))

	invalidate := middleware.NewCacheInvalidator(d.Cache, d.Redis)
	RegisterAuth(e, h, d.JWTSecret, invalidate)
	RegisterPublic(e, h, middleware.NewRedisCache(d.Cache, d.Redis))
	RegisterStudent(e, h, d.JWTSecret, invalidate)
	RegisterOrganizer(e, h, d.JWTSecret, invalidate)
	RegisterAdmin(e, h, d.JWTSecret, invalidate)
}

// RegisterAuth mounts sign-up, sessions and password reset under
// /v1/auth, and the routes any signed-in user may call.
func RegisterAuth(e *echo.Echo, h Handlers, jwtSecret string, invalidate echo.MiddlewareFunc) {
	jwt := middleware.JWTAuth(jwtSecret)

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout, jwt)
	g.POST("/forgot-password", h.Auth.ForgotPassword)
	g.POST("/reset-password", h.Auth.ResetPassword)

	me := e.Group("/v1", jwt, invalidate)
	me.GET("/me", h.Auth.Me)
	me.GET("/me/reservations", h.MyReservations.List)
	me.PUT("/users/:id", h.Users.Update)
	me.GET("/reservations/:id", h.Reservations.Get)
	me.DELETE("/reservations/:id", h.Reservations.Cancel)
	me.GET("/general-reservations/:id", h.GeneralReservations.Get)
	me.DELETE("/general-reservations/:id", h.GeneralReservations.Cancel)
}

// RegisterPublic mounts the read-only catalog.  Responses are cached in
// Redis until the next write bumps the cache generation.
func RegisterPublic(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)

	g.GET("/events", h.Events.List)
	g.GET("/events/active", h.Events.ListActive)
	g.GET("/events/:id", h.Events.Get)
	g.GET("/events/:id/availability", h.Events.Availability)

	g.GET("/general-events", h.GeneralEvents.List)
	g.GET("/general-events/active", h.GeneralEvents.ListActive)
	g.GET("/general-events/:id", h.GeneralEvents.Get)
	g.GET("/general-events/:id/availability", h.GeneralEvents.Availability)

	g.GET("/stadiums", h.Venues.ListStadiums)
	g.GET("/stadiums/:id", h.Venues.GetStadium)
	g.GET("/sports", h.Venues.ListSports)
	g.GET("/sports/:id", h.Venues.GetSport)
	g.GET("/teams", h.Venues.ListTeams)
	g.GET("/teams/:id", h.Venues.GetTeam)
}
