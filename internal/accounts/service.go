package accounts

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/authgrid/authgrid/internal/auth"
)

// RoleDirectory is the slice of the access registry the accounts module
// needs: default-role binding at registration and role name display.
type RoleDirectory interface {
	EnsureDefaultBinding(ctx context.Context, userID int64) error
	RoleNameForUser(ctx context.Context, userID int64) (string, error)
}

// Service wraps account business rules.
type Service struct {
	repo     Repository
	roles    RoleDirectory
	sessions *auth.Service
}

// NewService constructs a new Service.
func NewService(repo Repository, roles RoleDirectory, sessions *auth.Service) *Service {
	return &Service{repo: repo, roles: roles, sessions: sessions}
}

// Register creates a new account and binds it to the default role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("accounts: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MiddleName:   req.MiddleName,
	})
	if err != nil {
		return nil, "", err
	}

	if err := s.roles.EnsureDefaultBinding(ctx, user.ID); err != nil {
		return nil, "", fmt.Errorf("accounts: bind default role: %w", err)
	}

	role, err := s.roles.RoleNameForUser(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, role, nil
}

// Authenticate validates email/password credentials. Unknown email, wrong
// password and deactivated accounts all return the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns the user together with their role name.
func (s *Service) Profile(ctx context.Context, userID int64) (*User, string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	role, err := s.roles.RoleNameForUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, role, nil
}

// UpdateProfile applies a partial update of the name fields.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.MiddleName != nil {
		user.MiddleName = *req.MiddleName
	}
	if err := s.repo.UpdateNames(ctx, user); err != nil {
		return nil, "", err
	}
	role, err := s.roles.RoleNameForUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, role, nil
}

// Deactivate soft-deletes the account and revokes every active session
// before returning.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return err
	}
	return s.sessions.RevokeAll(ctx, userID)
}
