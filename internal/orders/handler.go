// Package orders is a demo business element consuming the authorization
// engine's decision. It serves an in-memory record set and applies
// own-record filtering when the granted scope is OWN.
package orders

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/authgrid/authgrid/internal/access"
	"github.com/authgrid/authgrid/internal/auth"
	"github.com/authgrid/authgrid/internal/platform/httpx"
)

// ElementCode is the business element guarding this resource.
const ElementCode = "orders"

// Order is a demo record with an owner.
type Order struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Title   string `json:"title"`
}

// CreateOrderRequest creates a record owned by the caller.
type CreateOrderRequest struct {
	Title string `json:"title"`
}

func seedOrders() []Order {
	return []Order{
		{ID: 1, OwnerID: 1, Title: "Order 1 of user 1"},
		{ID: 2, OwnerID: 2, Title: "Order 2 of user 2"},
		{ID: 3, OwnerID: 1, Title: "Order 3 of user 1"},
	}
}

// Handler serves the demo orders resource.
type Handler struct {
	mw access.Middleware

	mu      sync.Mutex
	records []Order
}

// NewHandler constructs a Handler preloaded with the demo records.
func NewHandler(mw access.Middleware) *Handler {
	return &Handler{mw: mw, records: seedOrders()}
}

// MountRoutes registers the orders routes guarded by the orders element.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireElement(ElementCode))
		r.Get("/orders", h.list)
		r.Post("/orders", h.create)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	decision, _ := access.DecisionFromContext(r.Context())

	h.mu.Lock()
	defer h.mu.Unlock()

	if decision.Scope == access.ScopeAll {
		httpx.JSON(w, http.StatusOK, h.records)
		return
	}

	own := make([]Order, 0, len(h.records))
	for _, order := range h.records {
		if order.OwnerID == identity.ID {
			own = append(own, order)
		}
	}
	httpx.JSON(w, http.StatusOK, own)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	order := Order{
		ID:      int64(len(h.records)) + 1,
		OwnerID: identity.ID,
		Title:   req.Title,
	}
	h.records = append(h.records, order)
	httpx.JSON(w, http.StatusCreated, order)
}
