package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// userID returns the authenticated subject or "anon".
func userID(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// deny writes the standard error envelope and stops the chain.
func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"data": nil, "message": msg, "success": false})
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
