package access

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/authgrid/authgrid/internal/platform/httpx"
)

// Handler wires the registry mutation endpoints. Every route passes the
// admin gate.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		mw:        mw,
		validator: validator.New(),
	}
}

// MountRoutes registers registry routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.RequireAdmin)

	r.Get("/roles", h.listRoles)
	r.Post("/roles", h.createRole)
	r.Delete("/roles/{id}", h.deleteRole)

	r.Post("/bindings", h.bindRole)

	r.Get("/elements", h.listElements)
	r.Post("/elements", h.createElement)
	r.Delete("/elements/{id}", h.deleteElement)

	r.Get("/rules", h.listRules)
	r.Post("/rules", h.createRule)
	r.Patch("/rules/{id}", h.patchRule)
	r.Delete("/rules/{id}", h.deleteRule)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.respondError(w, "list roles", err)
		return
	}
	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	role, err := h.service.CreateRole(r.Context(), req.Name, req.Description)
	if err != nil {
		h.respondError(w, "create role", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRoleResponse(*role))
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.respondError(w, "delete role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bindRole(w http.ResponseWriter, r *http.Request) {
	var req BindRoleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if err := h.service.AssignRole(r.Context(), req.User, req.Role); err != nil {
		h.respondError(w, "bind role", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listElements(w http.ResponseWriter, r *http.Request) {
	elements, err := h.service.ListElements(r.Context())
	if err != nil {
		h.respondError(w, "list elements", err)
		return
	}
	out := make([]ElementResponse, 0, len(elements))
	for _, element := range elements {
		out = append(out, toElementResponse(element))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createElement(w http.ResponseWriter, r *http.Request) {
	var req CreateElementRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	element, err := h.service.CreateElement(r.Context(), req.Code, req.Name)
	if err != nil {
		h.respondError(w, "create element", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toElementResponse(*element))
}

func (h *Handler) deleteElement(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteElement(r.Context(), id); err != nil {
		h.respondError(w, "delete element", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		h.respondError(w, "list rules", err)
		return
	}
	out := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	rule, err := h.service.CreateRule(r.Context(), AccessRule{
		RoleID:    req.Role,
		ElementID: req.Element,
		Read:      req.Read,
		ReadAll:   req.ReadAll,
		Create:    req.Create,
		Update:    req.Update,
		UpdateAll: req.UpdateAll,
		Delete:    req.Delete,
		DeleteAll: req.DeleteAll,
	})
	if err != nil {
		h.respondError(w, "create rule", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRuleResponse(*rule))
}

func (h *Handler) patchRule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req PatchRuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	rule, err := h.service.PatchRule(r.Context(), id, RuleFlagsPatch{
		Read:      req.Read,
		ReadAll:   req.ReadAll,
		Create:    req.Create,
		Update:    req.Update,
		UpdateAll: req.UpdateAll,
		Delete:    req.Delete,
		DeleteAll: req.DeleteAll,
	})
	if err != nil {
		h.respondError(w, "patch rule", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRuleResponse(*rule))
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		h.respondError(w, "delete rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		httpx.ValidationProblem(w, fields)
		return false
	}
	return true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicate):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		if h.logger != nil {
			h.logger.Error(op+" failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}
