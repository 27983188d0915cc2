package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// LoginInput carries credentials plus the caller's network origin, which is
// bound into the issued token.
type LoginInput struct {
	Username string
	Password string
	Origin   string
}

// RegisterInput carries self-service registration data.
type RegisterInput struct {
	Username string
	Password string
}

// CreateUserInput carries administrative creation data.
type CreateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
}

// UpdateUserInput carries a partial update. Nil fields are left untouched;
// a present Role replaces the whole role set. The acting principal travels
// with the input so authorization never relies on ambient state.
type UpdateUserInput struct {
	ID        string
	Role      *domain.Role
	Password  *string
	Username  *string
	Image     *string
	Principal domain.Principal
	Origin    string
}

// ChangePasswordInput carries the legacy password-change payload.
type ChangePasswordInput struct {
	ID          string
	OldPassword string
	NewPassword string
}

// UserService defines the account use-cases.
type UserService interface {
	Login(ctx context.Context, input LoginInput) (string, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	DetailUser(ctx context.Context, id string) (*domain.User, error)
	// UpdateUser applies the partial update and returns a freshly signed
	// token for the updated user.
	UpdateUser(ctx context.Context, input UpdateUserInput) (string, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Deprecated: superseded by UpdateUser; kept for API compatibility.
	ChangePassword(ctx context.Context, input ChangePasswordInput) (*domain.User, error)
}
