package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/platform/httpx"
)

// Handler wires HTTP endpoints for user and permission administration.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	resolver  *authz.Resolver
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, resolver *authz.Resolver) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		resolver:  resolver,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/permissions", h.effectivePermissions)
	r.Post("/{id}/permissions", h.setPermission)
}

type userResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	MerchantID *int64 `json:"merchant_id,omitempty"`
	IsActive   bool   `json:"is_active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.resolver.RequireAnyPermission(r.Context(), principal, authz.PermUsersView); err != nil {
		httpx.RespondError(w, err)
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:         u.ID,
			Email:      u.Email,
			Name:       u.Name,
			Role:       string(u.Role),
			MerchantID: u.MerchantID,
			IsActive:   u.IsActive,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": out})
}

func (h *Handler) effectivePermissions(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())
	if err := h.resolver.RequireAnyPermission(r.Context(), principal, authz.PermPermissionsView, authz.PermPermissionsManage); err != nil {
		httpx.RespondError(w, err)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}

	perms, err := h.service.EffectivePermissions(r.Context(), targetID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user_id": targetID, "permissions": perms})
}

type setPermissionRequest struct {
	Permission string `json:"permission" validate:"required"`
	Granted    bool   `json:"granted"`
}

func (h *Handler) setPermission(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r.Context())

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}

	var req setPermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	err = h.service.SetPermission(r.Context(), principal, targetID, authz.Permission(req.Permission), req.Granted)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id":    targetID,
		"permission": req.Permission,
		"granted":    req.Granted,
	})
}
