package access_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/authgrid/internal/access"
)

type ruleKey struct {
	roleID    int64
	elementID int64
}

type stubRuleSource struct {
	bindings map[int64]*access.Role
	elements map[string]*access.BusinessElement
	rules    map[ruleKey]*access.AccessRule
}

func newStubRuleSource() *stubRuleSource {
	return &stubRuleSource{
		bindings: make(map[int64]*access.Role),
		elements: make(map[string]*access.BusinessElement),
		rules:    make(map[ruleKey]*access.AccessRule),
	}
}

func (s *stubRuleSource) RoleByUser(ctx context.Context, userID int64) (*access.Role, error) {
	role, ok := s.bindings[userID]
	if !ok {
		return nil, access.ErrNotFound
	}
	return role, nil
}

func (s *stubRuleSource) ElementByCode(ctx context.Context, code string) (*access.BusinessElement, error) {
	element, ok := s.elements[code]
	if !ok {
		return nil, access.ErrNotFound
	}
	return element, nil
}

func (s *stubRuleSource) RuleFor(ctx context.Context, roleID, elementID int64) (*access.AccessRule, error) {
	rule, ok := s.rules[ruleKey{roleID, elementID}]
	if !ok {
		return nil, access.ErrNotFound
	}
	return rule, nil
}

var _ access.RuleSource = (*stubRuleSource)(nil)

func seedSource(rule *access.AccessRule) *stubRuleSource {
	source := newStubRuleSource()
	source.bindings[1] = &access.Role{ID: 10, Name: "user"}
	source.elements["orders"] = &access.BusinessElement{ID: 20, Code: "orders", Name: "Orders"}
	if rule != nil {
		rule.RoleID = 10
		rule.ElementID = 20
		source.rules[ruleKey{10, 20}] = rule
	}
	return source
}

func TestDecideBypassWithoutElement(t *testing.T) {
	engine := access.NewEngine(newStubRuleSource())

	decision, err := engine.Decide(context.Background(), 1, access.VerbRead, "")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, access.ScopeAll, decision.Scope)
}

func TestDecideDenyDefaults(t *testing.T) {
	t.Run("no role binding", func(t *testing.T) {
		source := seedSource(&access.AccessRule{Read: true})
		delete(source.bindings, 1)
		engine := access.NewEngine(source)

		decision, err := engine.Decide(context.Background(), 1, access.VerbRead, "orders")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("unknown element", func(t *testing.T) {
		engine := access.NewEngine(seedSource(&access.AccessRule{Read: true}))

		decision, err := engine.Decide(context.Background(), 1, access.VerbRead, "invoices")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("no rule for pair", func(t *testing.T) {
		engine := access.NewEngine(seedSource(nil))

		decision, err := engine.Decide(context.Background(), 1, access.VerbRead, "orders")
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})
}

func TestDecideVerbFlagMapping(t *testing.T) {
	cases := []struct {
		name    string
		rule    access.AccessRule
		verb    access.Verb
		allowed bool
		scope   access.Scope
	}{
		{"read own only", access.AccessRule{Read: true}, access.VerbRead, true, access.ScopeOwn},
		{"read all wins over base", access.AccessRule{Read: false, ReadAll: true}, access.VerbRead, true, access.ScopeAll},
		{"read denied", access.AccessRule{Create: true}, access.VerbRead, false, ""},
		{"create", access.AccessRule{Create: true}, access.VerbCreate, true, access.ScopeOwn},
		{"create denied by read flags", access.AccessRule{Read: true, ReadAll: true}, access.VerbCreate, false, ""},
		{"update own", access.AccessRule{Update: true}, access.VerbUpdate, true, access.ScopeOwn},
		{"update all", access.AccessRule{UpdateAll: true}, access.VerbUpdate, true, access.ScopeAll},
		{"delete own", access.AccessRule{Delete: true}, access.VerbDelete, true, access.ScopeOwn},
		{"delete all", access.AccessRule{DeleteAll: true}, access.VerbDelete, true, access.ScopeAll},
		{"unknown verb", access.AccessRule{Read: true, ReadAll: true, Create: true, Update: true, UpdateAll: true, Delete: true, DeleteAll: true}, access.Verb("trace"), false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := tc.rule
			engine := access.NewEngine(seedSource(&rule))

			decision, err := engine.Decide(context.Background(), 1, tc.verb, "orders")
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, decision.Allowed)
			if tc.allowed {
				assert.Equal(t, tc.scope, decision.Scope)
			}
		})
	}
}

func TestVerbForMethod(t *testing.T) {
	cases := map[string]struct {
		verb access.Verb
		ok   bool
	}{
		"GET":     {access.VerbRead, true},
		"HEAD":    {access.VerbRead, true},
		"POST":    {access.VerbCreate, true},
		"PUT":     {access.VerbUpdate, true},
		"PATCH":   {access.VerbUpdate, true},
		"DELETE":  {access.VerbDelete, true},
		"OPTIONS": {"", false},
		"TRACE":   {"", false},
	}
	for method, want := range cases {
		verb, ok := access.VerbForMethod(method)
		assert.Equal(t, want.ok, ok, method)
		assert.Equal(t, want.verb, verb, method)
	}
}

func TestIsAdmin(t *testing.T) {
	source := newStubRuleSource()
	source.bindings[1] = &access.Role{ID: 10, Name: "admin"}
	source.bindings[2] = &access.Role{ID: 11, Name: "user"}
	engine := access.NewEngine(source)

	isAdmin, err := engine.IsAdmin(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = engine.IsAdmin(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	isAdmin, err = engine.IsAdmin(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
