package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/api/metrics"
	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// LoginThrottle is the interface the handler uses to rate-limit failed
// logins. Implementations must fail open: an infrastructure fault disables
// throttling, it never blocks a login.
type LoginThrottle interface {
	Blocked(ctx context.Context, username, origin string) (bool, error)
	RecordFailure(ctx context.Context, username, origin string) error
	Reset(ctx context.Context, username, origin string) error
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	users    ports.UserService
	throttle LoginThrottle
}

func NewAuthHandler(users ports.UserService, throttle LoginThrottle) *AuthHandler {
	return &AuthHandler{users: users, throttle: throttle}
}

// Register creates a new account with the user role.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(domain.RoleUser)).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login authenticates a user and returns a signed token bound to the
// caller's address.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	origin := c.RealIP()

	if blocked, err := h.throttle.Blocked(ctx, req.Username, origin); err == nil && blocked {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many failed logins"})
	}

	token, err := h.users.Login(ctx, ports.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Origin:   origin,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginFailureResult(err)).Inc()
		if isCredentialFailure(err) {
			_ = h.throttle.RecordFailure(ctx, req.Username, origin)
		}
		return err
	}

	_ = h.throttle.Reset(ctx, req.Username, origin)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func isCredentialFailure(err error) bool {
	var notFound *domain.NotFoundError
	var form *domain.FormError
	return errors.As(err, &notFound) || errors.As(err, &form)
}

func loginFailureResult(err error) string {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var form *domain.FormError
	if errors.As(err, &form) {
		return "bad_password"
	}
	return "error"
}
