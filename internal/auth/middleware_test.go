package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgrid/authgrid/internal/auth"
)

func newMiddleware(repo *stubRepo) (auth.Middleware, *auth.Service) {
	service := newService(repo, time.Hour)
	return auth.Middleware{Service: service}, service
}

func TestAuthenticateNoHeaderIsAnonymous(t *testing.T) {
	mw, _ := newMiddleware(newStubRepo())

	var sawIdentity *auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawIdentity = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	res := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Nil(t, sawIdentity)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	mw, _ := newMiddleware(newStubRepo())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	cases := map[string]string{
		"wrong scheme": "Basic abcdef",
		"no token":     "Bearer",
		"extra parts":  "Bearer one two",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			res := httptest.NewRecorder()
			mw.Authenticate(next).ServeHTTP(res, req)
			assert.Equal(t, http.StatusUnauthorized, res.Code)
		})
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	repo := newStubRepo()
	repo.identities[3] = &auth.Identity{ID: 3, Email: "who@test.local", IsActive: true}
	mw, service := newMiddleware(repo)

	raw, _, err := service.Issue(context.Background(), 3)
	require.NoError(t, err)

	var sawIdentity *auth.Identity
	var sawSession *auth.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawIdentity = auth.IdentityFromContext(r.Context())
		sawSession = auth.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	res := httptest.NewRecorder()
	mw.Authenticate(next).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, sawIdentity)
	assert.Equal(t, int64(3), sawIdentity.ID)
	require.NotNil(t, sawSession)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	mw, _ := newMiddleware(newStubRepo())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	res := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
