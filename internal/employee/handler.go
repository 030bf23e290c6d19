package employee

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/transport"
	"github.com/go-chi/chi"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ServiceAPI defines what the transport layer needs from the employee service.
type ServiceAPI interface {
	GetAll(limit, offset int) ([]*Employee, error)
	GetByID(id string) (*Employee, error)
	Create(ctx context.Context, dto *CreateEmployeeDTO, actor *auth.User, meta auth.RequestMeta) (*Employee, error)
	Update(ctx context.Context, id string, dto *UpdateEmployeeDTO, actor *auth.User, meta auth.RequestMeta) (*Employee, error)
	Delete(ctx context.Context, id string, actor *auth.User, meta auth.RequestMeta) error
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
// @Summary List employees
// @Tags employees
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {array} Employee
// @Router /api/v1/employees [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	employees, err := h.Service.GetAll(limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if employees == nil {
		employees = []*Employee{}
	}
	h.WriteJSON(w, http.StatusOK, employees)
}

// Get godoc
// @Summary Get an employee by ID
// @Tags employees
// @Produce json
// @Param id path string true "employee ID"
// @Success 200 {object} Employee
// @Router /api/v1/employees/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	emp, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

// Create godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body CreateEmployeeDTO true "employee"
// @Success 201 {object} Employee
// @Router /api/v1/employees [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode create employee request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Create(r.Context(), &dto, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, emp)
}

// Update godoc
// @Summary Update an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "employee ID"
// @Param employee body UpdateEmployeeDTO true "fields to update"
// @Success 200 {object} Employee
// @Router /api/v1/employees/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("failed to decode update employee request", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Update(r.Context(), id, &dto, actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}

// Delete godoc
// @Summary Delete an employee
// @Tags employees
// @Param id path string true "employee ID"
// @Success 204
// @Router /api/v1/employees/{id} [delete]
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
