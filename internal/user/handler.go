package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/go-chi/chi"
)

// ServiceAPI defines what the transport layer needs from the user service.
type ServiceAPI interface {
	List() ([]*User, error)
	GetByID(id string) (*User, error)
	Create(ctx context.Context, dto *CreateUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error)
	Update(ctx context.Context, id string, dto *UpdateUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error)
	Delete(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) error
	Ban(ctx context.Context, id string, dto *BanUserDTO, actor *auth.User, meta auth.RequestMeta) (*User, error)
	Unban(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) (*User, error)
	ResetPassword(ctx context.Context, id string, dto *ResetPasswordDTO, actor *auth.User, meta auth.RequestMeta) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(logger *slog.Logger, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} User
// @Router /api/v1/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if users == nil {
		users = []*User{}
	}
	h.WriteJSON(w, http.StatusOK, users)
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} User
// @Router /api/v1/users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.Service.GetByID(actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserDTO true "user"
// @Success 201 {object} User
// @Router /api/v1/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode create user request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(r.Context(), &dto, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u)
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "user ID"
// @Param user body UpdateUserDTO true "fields to update"
// @Success 200 {object} User
// @Router /api/v1/users/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode update user request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(r.Context(), id, &dto, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Param id path string true "user ID"
// @Success 204
// @Router /api/v1/users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(r.Context(), id, actor, auth.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ban godoc
// @Summary Ban a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "user ID"
// @Param ban body BanUserDTO false "ban options"
// @Success 200 {object} User
// @Router /api/v1/users/{id}/ban [post]
func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var dto BanUserDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("failed to decode ban request", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	u, err := h.Service.Ban(r.Context(), id, &dto, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// Unban godoc
// @Summary Unban a user
// @Tags users
// @Produce json
// @Param id path string true "user ID"
// @Success 200 {object} User
// @Router /api/v1/users/{id}/unban [post]
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	u, err := h.Service.Unban(r.Context(), id, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// ResetPassword godoc
// @Summary Reset a user's password
// @Tags users
// @Accept json
// @Param id path string true "user ID"
// @Param password body ResetPasswordDTO true "new password"
// @Success 204
// @Router /api/v1/users/{id}/reset-password [post]
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var dto ResetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode reset password request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.ResetPassword(r.Context(), id, &dto, actor, auth.MetaFromRequest(r)); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
