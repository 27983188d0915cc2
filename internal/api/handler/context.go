package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty user id
// proves the middleware ran.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roles, _ := c.Get("roles").(domain.Roles)
	return domain.Principal{UserID: userID, Roles: roles}, nil
}
