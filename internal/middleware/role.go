package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It assumes BasicAuth
// has run and stored the role under CtxRole.  Any other role, or a missing
// one, aborts the request with 403 Forbidden.  The services repeat the
// admin check themselves; this only rejects early.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
