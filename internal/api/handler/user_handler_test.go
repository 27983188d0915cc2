package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		getAllFn: func(_ context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{ID: "1", Username: "alice", Roles: domain.Roles{domain.RoleAdmin}},
				{ID: "2", Username: "bob", Roles: domain.Roles{domain.RoleUser}},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/users", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].Username != "alice" || resp[1].Username != "bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Get(t *testing.T) {
	stub := &stubUserService{
		detailFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "42" {
				t.Fatalf("unexpected id %q", id)
			}
			return &domain.User{ID: "42", Username: "alice", Roles: domain.Roles{domain.RoleUser}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/users/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		detailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.NewNotFoundError("User")
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/users/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	err := h.Get(c)

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError to propagate, got %v", err)
	}
}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubUserService{
		createFn: func(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if !input.IsAdmin {
				t.Fatalf("expected admin flag to be forwarded")
			}
			return &domain.User{ID: "9", Username: input.Username, Roles: domain.Roles{domain.RoleUser, domain.RoleAdmin}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/users", `{"username":"carol","password":"pw1secret","is_admin":true}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Update(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, input ports.UpdateUserInput) (string, error) {
			if input.ID != "42" {
				t.Fatalf("unexpected id %q", input.ID)
			}
			if input.Role == nil || *input.Role != domain.RoleAdmin {
				t.Fatalf("expected role change to admin, got %v", input.Role)
			}
			if input.Principal.UserID != "admin-1" {
				t.Fatalf("principal not forwarded: %+v", input.Principal)
			}
			return "fresh-token", nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/v1/users/42", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", "admin-1")
	c.Set("roles", domain.Roles{domain.RoleAdmin})

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "fresh-token" {
		t.Fatalf("expected fresh token, got %q", resp.Token)
	}
}

func TestUserHandler_Update_Forbidden(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ ports.UpdateUserInput) (string, error) {
			return "", domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPut, "/v1/users/42", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", "user-2")
	c.Set("roles", domain.Roles{domain.RoleUser})

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden to propagate, got %v", err)
	}
}

func TestUserHandler_Update_MissingClaims(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ ports.UpdateUserInput) (string, error) {
			t.Fatalf("service must not be called without claims")
			return "", nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := newTestContext(t, http.MethodPut, "/v1/users/42", `{"image":"avatar.png"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Update(c); err == nil {
		t.Fatalf("expected error when claims are absent")
	}
}

func TestUserHandler_Update_BadRole(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, _ ports.UpdateUserInput) (string, error) {
			t.Fatalf("service must not be called with an invalid role")
			return "", nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/v1/users/42", `{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("user_id", "admin-1")
	c.Set("roles", domain.Roles{domain.RoleAdmin})

	_ = h.Update(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, id string) (bool, error) {
			if id != "42" {
				t.Fatalf("unexpected id %q", id)
			}
			return true, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodDelete, "/v1/users/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp deleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Deleted {
		t.Fatalf("expected deleted=true")
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	stub := &stubUserService{
		changePasswordFn: func(_ context.Context, input ports.ChangePasswordInput) (*domain.User, error) {
			if input.ID != "42" || input.OldPassword != "old-secret" || input.NewPassword != "new-secret" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "42", Username: "alice", Roles: domain.Roles{domain.RoleUser}}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/v1/users/42/password", `{"old_password":"old-secret","new_password":"new-secret"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
