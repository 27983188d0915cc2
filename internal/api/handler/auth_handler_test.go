package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// stubUserService lets each test wire just the methods it needs.
type stubUserService struct {
	loginFn          func(ctx context.Context, input ports.LoginInput) (string, error)
	registerFn       func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	getAllFn         func(ctx context.Context) ([]*domain.User, error)
	deleteFn         func(ctx context.Context, id string) (bool, error)
	detailFn         func(ctx context.Context, id string) (*domain.User, error)
	updateFn         func(ctx context.Context, input ports.UpdateUserInput) (string, error)
	createFn         func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, input ports.ChangePasswordInput) (*domain.User, error)
}

func (s *stubUserService) Login(ctx context.Context, input ports.LoginInput) (string, error) {
	return s.loginFn(ctx, input)
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.getAllFn(ctx)
}

func (s *stubUserService) Delete(ctx context.Context, id string) (bool, error) {
	return s.deleteFn(ctx, id)
}

func (s *stubUserService) DetailUser(ctx context.Context, id string) (*domain.User, error) {
	return s.detailFn(ctx, id)
}

func (s *stubUserService) UpdateUser(ctx context.Context, input ports.UpdateUserInput) (string, error) {
	return s.updateFn(ctx, input)
}

func (s *stubUserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, input)
}

func (s *stubUserService) ChangePassword(ctx context.Context, input ports.ChangePasswordInput) (*domain.User, error) {
	return s.changePasswordFn(ctx, input)
}

// stubThrottle records limiter interactions.
type stubThrottle struct {
	blocked  bool
	failures int
	resets   int
}

func (s *stubThrottle) Blocked(_ context.Context, _, _ string) (bool, error) {
	return s.blocked, nil
}

func (s *stubThrottle) RecordFailure(_ context.Context, _, _ string) error {
	s.failures++
	return nil
}

func (s *stubThrottle) Reset(_ context.Context, _, _ string) error {
	s.resets++
	return nil
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Username != "alice" || input.Password != "pw1secret" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "1", Username: "alice", Roles: domain.Roles{domain.RoleUser}}, nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1secret"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password_hash"]; ok {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			return nil, domain.NewDuplicatedError("User")
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1secret"}`)
	err := h.Register(c)

	var duplicated *domain.DuplicatedError
	if !errors.As(err, &duplicated) {
		t.Fatalf("expected DuplicatedError to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubUserService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", "not-json")
	_ = h.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	// Short password fails validation before the service is reached.
	c, rec = newTestContext(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw"}`)
	_ = h.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	throttle := &stubThrottle{}
	stub := &stubUserService{
		loginFn: func(_ context.Context, input ports.LoginInput) (string, error) {
			if input.Username != "alice" || input.Password != "pw1secret" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Origin == "" {
				t.Fatalf("expected caller origin to be forwarded")
			}
			return "token123", nil
		},
	}
	h := NewAuthHandler(stub, throttle)

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	if throttle.resets != 1 {
		t.Fatalf("expected limiter reset after success")
	}
}

func TestAuthHandler_Login_BadPasswordRecordsFailure(t *testing.T) {
	throttle := &stubThrottle{}
	stub := &stubUserService{
		loginFn: func(_ context.Context, _ ports.LoginInput) (string, error) {
			return "", domain.NewFormError("Password")
		},
	}
	h := NewAuthHandler(stub, throttle)

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`)
	err := h.Login(c)

	var form *domain.FormError
	if !errors.As(err, &form) {
		t.Fatalf("expected FormError to propagate, got %v", err)
	}
	if throttle.failures != 1 {
		t.Fatalf("expected failure to be recorded")
	}
}

func TestAuthHandler_Login_Throttled(t *testing.T) {
	stub := &stubUserService{
		loginFn: func(_ context.Context, _ ports.LoginInput) (string, error) {
			t.Fatalf("service must not be called when throttled")
			return "", nil
		},
	}
	h := NewAuthHandler(stub, &stubThrottle{blocked: true})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1secret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
