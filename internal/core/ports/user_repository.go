package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// FindByID and FindByUsername signal absence with a nil user and nil error;
// an error is only returned on storage faults. The implementation must
// enforce username uniqueness atomically with a unique index; the
// service-level pre-check is a fast path, not the guarantee.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save inserts the user when its ID is empty and replaces the existing
	// record otherwise. It returns the persisted form, with the generated
	// ID filled in on insert.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// DeleteByID removes the user and reports whether a record was deleted.
	DeleteByID(ctx context.Context, id string) (bool, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
}
