package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/authgrid/authgrid/internal/auth"
	"github.com/authgrid/authgrid/internal/platform/httpx"
)

type decisionContextKey struct{}

// ContextWithDecision stores the engine's decision in context so resource
// handlers can apply own-record filtering.
func ContextWithDecision(ctx context.Context, decision Decision) context.Context {
	return context.WithValue(ctx, decisionContextKey{}, decision)
}

// DecisionFromContext extracts the decision placed by RequireElement.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	decision, ok := ctx.Value(decisionContextKey{}).(Decision)
	return decision, ok
}

// Middleware wires the authorization engine into HTTP handlers.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// RequireElement authorizes the request against the named business element,
// deriving the verb from the HTTP method. Anonymous callers get 401, denied
// callers 403. The decision, including its scope, is stored in context.
func (m Middleware) RequireElement(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}

			verb, ok := VerbForMethod(r.Method)
			if !ok {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}

			decision, err := m.Engine.Decide(r.Context(), identity.ID, verb, code)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorization decision failed", slog.String("element", code), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !decision.Allowed {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}

			ctx := ContextWithDecision(r.Context(), decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards registry mutation endpoints: only the reserved admin
// role passes.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		isAdmin, err := m.Engine.IsAdmin(r.Context(), identity.ID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("admin gate check failed", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if !isAdmin {
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
