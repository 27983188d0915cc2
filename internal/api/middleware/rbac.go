package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// RBAC enforces role-based access control over the principal's role set.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").(domain.Roles)
			for _, allowed := range allowedRoles {
				if roles.Contains(allowed) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
