package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the process and its stores are reachable.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

// Health answers "ok" while MySQL responds.  Redis is optional and only
// reported.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	status := map[string]string{"mysql": "ok", "redis": "disabled"}
	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			status["mysql"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, Response{Data: status, Message: "unhealthy"})
		}
	}
	if h.Redis != nil {
		status["redis"] = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
		}
	}
	return ok(c, http.StatusOK, status, "ok")
}
