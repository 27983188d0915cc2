package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// Auth validates the JWT and injects the resolved principal into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, _ := claims["sub"].(string)
			c.Set("user_id", userID)
			c.Set("roles", claimRoles(claims))

			return next(c)
		}
	}
}

// claimRoles converts the raw roles claim back into a domain role set.
func claimRoles(claims jwt.MapClaims) domain.Roles {
	raw, _ := claims["roles"].([]interface{})
	ss := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			ss = append(ss, s)
		}
	}
	return domain.RolesFromStrings(ss)
}
