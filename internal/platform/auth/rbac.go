package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that restricts a route to the given roles.
// ADMIN always passes. On refusal the response carries the caller's own
// dashboard path so the interface can send them back where they belong.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == RoleAdmin {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}

			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return c.JSON(http.StatusForbidden, map[string]string{
				"error":    fmt.Sprintf("required role: %s", strings.Join(names, " or ")),
				"redirect": DashboardPath(role),
			})
		}
	}
}
