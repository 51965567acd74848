package access

import (
	"context"
	"errors"
	"strings"
)

// Service orchestrates registry mutations and the default-role binding used
// at registration time.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("access: role name required")
	}
	return s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
}

// DeleteRole removes a role together with its rules and user bindings.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// EnsureDefaultBinding assigns the default role to a user, creating the role
// if it does not exist yet. Role creation and binding commit atomically.
func (s *Service) EnsureDefaultBinding(ctx context.Context, userID int64) error {
	_, err := s.repo.EnsureBinding(ctx, userID, DefaultRoleName, "Regular user")
	return err
}

// AssignRole rebinds a user to the given role, replacing any prior binding.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.BindUserRole(ctx, userID, roleID)
}

// RoleNameForUser returns the name of the user's bound role, or "" when the
// user has no binding.
func (s *Service) RoleNameForUser(ctx context.Context, userID int64) (string, error) {
	role, err := s.repo.RoleByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return role.Name, nil
}

// ListElements returns all business elements.
func (s *Service) ListElements(ctx context.Context) ([]BusinessElement, error) {
	return s.repo.ListElements(ctx)
}

// CreateElement inserts a new business element.
func (s *Service) CreateElement(ctx context.Context, code, name string) (*BusinessElement, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("access: element code required")
	}
	return s.repo.CreateElement(ctx, code, strings.TrimSpace(name))
}

// DeleteElement removes a business element together with its rules.
func (s *Service) DeleteElement(ctx context.Context, id int64) error {
	return s.repo.DeleteElement(ctx, id)
}

// ListRules returns all access rules.
func (s *Service) ListRules(ctx context.Context) ([]AccessRule, error) {
	return s.repo.ListRules(ctx)
}

// CreateRule inserts a rule for a (role, element) pair. A pair that already
// has a rule is rejected with ErrDuplicate, never silently overwritten.
func (s *Service) CreateRule(ctx context.Context, rule AccessRule) (*AccessRule, error) {
	return s.repo.CreateRule(ctx, rule)
}

// RuleFlagsPatch carries a merge-patch of rule flags: nil fields keep their
// prior value.
type RuleFlagsPatch struct {
	Read      *bool
	ReadAll   *bool
	Create    *bool
	Update    *bool
	UpdateAll *bool
	Delete    *bool
	DeleteAll *bool
}

// PatchRule applies a partial flag update to an existing rule.
func (s *Service) PatchRule(ctx context.Context, id int64, patch RuleFlagsPatch) (*AccessRule, error) {
	rule, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return nil, err
	}
	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&rule.Read, patch.Read)
	apply(&rule.ReadAll, patch.ReadAll)
	apply(&rule.Create, patch.Create)
	apply(&rule.Update, patch.Update)
	apply(&rule.UpdateAll, patch.UpdateAll)
	apply(&rule.Delete, patch.Delete)
	apply(&rule.DeleteAll, patch.DeleteAll)

	if err := s.repo.UpdateRule(ctx, *rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// DeleteRule removes one rule by id.
func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	return s.repo.DeleteRule(ctx, id)
}
