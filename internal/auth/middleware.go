package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/authgrid/authgrid/internal/platform/httpx"
)

const bearerScheme = "Bearer"

// Middleware authenticates requests from the Authorization header.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate resolves the bearer token, if any, and stores the identity and
// session in the request context. An absent header leaves the request
// anonymous; a present but unusable header is rejected with 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != bearerScheme {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		identity, session, err := m.Service.Validate(r.Context(), parts[1])
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("token validation failed", slog.Any("reason", err))
			}
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}

		ctx := ContextWithIdentity(r.Context(), identity)
		ctx = ContextWithSession(ctx, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
