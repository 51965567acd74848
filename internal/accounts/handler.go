package accounts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/authgrid/authgrid/internal/auth"
	"github.com/authgrid/authgrid/internal/platform/httpx"
)

// Handler wires HTTP endpoints for registration and the account lifecycle.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *auth.Service
	throttle  *auth.LoginThrottle
	authMW    auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *auth.Service, throttle *auth.LoginThrottle, authMW auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		throttle:  throttle,
		authMW:    authMW,
		validator: validator.New(),
	}
}

// MountRoutes registers account routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.authMW.RequireAuth)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
		r.Patch("/me", h.updateMe)
		r.Delete("/me", h.deleteMe)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	if req.Password != req.Password2 {
		httpx.ValidationProblem(w, map[string]string{"password2": "passwords do not match"})
		return
	}

	user, role, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.RespondError(w, httpx.ErrDuplicate)
			return
		}
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(user, role))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	if h.throttle != nil && !h.throttle.Allow(r.Context(), req.Email) {
		httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "try again later")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.ValidationProblem(w, map[string]string{"email": "invalid email or password"})
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	token, session, err := h.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("issue session failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, LoginResponse{
		Access:    token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session != nil {
		if err := h.sessions.Revoke(r.Context(), session); err != nil {
			h.logger.Error("revoke session failed", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, DetailResponse{Detail: "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	user, role, err := h.service.Profile(r.Context(), identity.ID)
	if err != nil {
		h.respondError(w, "load profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user, role))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	var req UpdateProfileRequest
	if !h.decodeValid(w, r, &req) {
		return
	}
	user, role, err := h.service.UpdateProfile(r.Context(), identity.ID, req)
	if err != nil {
		h.respondError(w, "update profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user, role))
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if err := h.service.Deactivate(r.Context(), identity.ID); err != nil {
		h.respondError(w, "deactivate account", err)
		return
	}
	httpx.JSON(w, http.StatusOK, DetailResponse{Detail: "account deactivated"})
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

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error(op+" failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
