package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/userhub/accounts-api/internal/core/domain"
	"github.com/userhub/accounts-api/internal/core/ports"
)

// UserService implements account management: login, registration, retrieval,
// update and deletion. It is stateless between calls; all state lives in the
// repository.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	signer ports.TokenSigner
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, signer ports.TokenSigner, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, signer: signer, log: log}
}

// Login verifies the credentials and returns a signed token bound to the
// caller's network origin.
func (s *UserService) Login(ctx context.Context, input ports.LoginInput) (string, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NewNotFoundError("User")
	}

	if !s.hasher.Compare(user.PasswordHash, input.Password) {
		return "", domain.NewFormError("Password")
	}

	token, err := s.signer.Sign(user, input.Origin)
	if err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Str("origin", input.Origin).Msg("user logged in")
	return token, nil
}

// Register creates a new account with the user role and an empty image.
func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicatedError("User")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Save(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Roles:        domain.Roles{domain.RoleUser},
		Image:        "",
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Str("id", created.ID).Msg("user registered")
	return created, nil
}

// GetAll returns every user record, unfiltered.
func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, domain.NewNotFoundError("User")
	}

	if _, err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, err
	}

	s.log.Info().Str("id", id).Str("username", user.Username).Msg("user deleted")
	return true, nil
}

// DetailUser returns the user with the given id.
func (s *UserService) DetailUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUser applies the fields present in the input and returns a freshly
// signed token for the updated user. Only a role change requires the admin
// policy; username, password and image edits are open to any authenticated
// principal that knows the target id.
//
// Checks run in a fixed order: existence, then authorization, then field
// application with the uniqueness probe. Nothing is persisted until every
// check has passed.
func (s *UserService) UpdateUser(ctx context.Context, input ports.UpdateUserInput) (string, error) {
	user, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.NewNotFoundError("User")
	}

	if input.Role != nil {
		if !input.Principal.CanChangeRole() {
			return "", domain.ErrForbidden
		}
		// Wholesale replacement: the old role set is discarded.
		if *input.Role == domain.RoleAdmin {
			user.Roles = domain.Roles{domain.RoleAdmin}
		} else {
			user.Roles = domain.Roles{domain.RoleUser}
		}
	}

	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return "", err
		}
		user.PasswordHash = hash
	}

	if input.Username != nil {
		holder, err := s.repo.FindByUsername(ctx, *input.Username)
		if err != nil {
			return "", err
		}
		// Renaming to the user's own current username is a no-op, not a
		// collision.
		if holder != nil && holder.ID != user.ID {
			return "", domain.NewDuplicatedError("User")
		}
		user.Username = *input.Username
	}

	if input.Image != nil {
		user.Image = *input.Image
	}

	updated, err := s.repo.Save(ctx, user)
	if err != nil {
		return "", err
	}

	token, err := s.signer.Sign(updated, input.Origin)
	if err != nil {
		return "", err
	}

	s.log.Info().
		Str("id", updated.ID).
		Str("acting_user", input.Principal.UserID).
		Bool("role_changed", input.Role != nil).
		Msg("user updated")
	return token, nil
}

// Create is the administrative creation path: the role is chosen by flag.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewDuplicatedError("User")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	roles := domain.Roles{domain.RoleUser}
	if input.IsAdmin {
		roles = domain.Roles{domain.RoleAdmin}
	}

	created, err := s.repo.Save(ctx, &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Roles:        roles,
		Image:        "",
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Bool("admin", input.IsAdmin).Msg("user created")
	return created, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
//
// Deprecated: superseded by UpdateUser; kept for API compatibility.
func (s *UserService) ChangePassword(ctx context.Context, input ports.ChangePasswordInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User")
	}

	if !s.hasher.Compare(user.PasswordHash, input.OldPassword) {
		return nil, domain.NewFormError("Password")
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	return s.repo.Save(ctx, user)
}
