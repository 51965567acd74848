package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/authgrid/authgrid/internal/access"
	"github.com/authgrid/authgrid/internal/accounts"
	"github.com/authgrid/authgrid/internal/auth"
	"github.com/authgrid/authgrid/internal/orders"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthMiddleware  auth.Middleware
	AccountsHandler *accounts.Handler
	AccessHandler   *access.Handler
	OrdersHandler   *orders.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Auth:   params.AuthMiddleware,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", params.AccountsHandler.MountRoutes)
	r.Route("/api/access", params.AccessHandler.MountRoutes)
	r.Route("/api", params.OrdersHandler.MountRoutes)

	return r
}
