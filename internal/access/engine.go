package access

import (
	"context"
	"errors"
)

// RuleSource is the read-only slice of the registry the engine needs.
type RuleSource interface {
	RoleByUser(ctx context.Context, userID int64) (*Role, error)
	ElementByCode(ctx context.Context, code string) (*BusinessElement, error)
	RuleFor(ctx context.Context, roleID, elementID int64) (*AccessRule, error)
}

// Engine renders allow/deny decisions from current registry state. It is a
// pure read-only function of the store: deny by default, allow only when a
// rule flag for the verb is set.
type Engine struct {
	repo RuleSource
}

// NewEngine constructs an Engine backed by the registry.
func NewEngine(repo RuleSource) *Engine {
	return &Engine{repo: repo}
}

var denied = Decision{Allowed: false}

// Decide resolves the caller's role, the element, and the rule for the pair,
// then checks the verb's flag pair. An empty element code bypasses the check
// entirely: endpoints with no associated business element are unrestricted.
func (e *Engine) Decide(ctx context.Context, userID int64, verb Verb, elementCode string) (Decision, error) {
	if elementCode == "" {
		return Decision{Allowed: true, Scope: ScopeAll}, nil
	}

	role, err := e.repo.RoleByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return denied, nil
		}
		return denied, err
	}

	element, err := e.repo.ElementByCode(ctx, elementCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return denied, nil
		}
		return denied, err
	}

	rule, err := e.repo.RuleFor(ctx, role.ID, element.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return denied, nil
		}
		return denied, err
	}

	pair, ok := verbFlags[verb]
	if !ok {
		return denied, nil
	}
	if pair.all != nil && pair.all(*rule) {
		return Decision{Allowed: true, Scope: ScopeAll}, nil
	}
	if pair.base(*rule) {
		return Decision{Allowed: true, Scope: ScopeOwn}, nil
	}
	return denied, nil
}

// IsAdmin is the gate guarding registry mutations: the caller's role name
// must equal the reserved administrator role. It is deliberately coarser
// than Decide since registry objects are not business elements themselves.
func (e *Engine) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	role, err := e.repo.RoleByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return role.Name == AdminRoleName, nil
}
