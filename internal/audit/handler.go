package audit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/transport"
)

// ServiceAPI defines what the transport layer needs from the audit service.
type ServiceAPI interface {
	List(f Filters) (*Page, error)
	ExportCSV(ctx context.Context, f Filters, actor *auth.User, meta auth.RequestMeta) (string, error)
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

func filtersFromQuery(r *http.Request) Filters {
	q := r.URL.Query()
	f := Filters{
		Action:   q.Get("action"),
		Resource: q.Get("resource"),
		UserID:   q.Get("user_id"),
		Search:   q.Get("search"),
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = &t
		}
	}
	return f
}

// List godoc
// @Summary List audit records
// @Tags audit
// @Produce json
// @Param action query string false "filter by action"
// @Param resource query string false "filter by resource"
// @Param search query string false "substring match over action and resource"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} Page
// @Router /api/v1/audit-logs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(filtersFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

// Export godoc
// @Summary Export audit records as CSV
// @Tags audit
// @Produce text/csv
// @Success 200 {string} string
// @Router /api/v1/audit-logs/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	csv, err := h.Service.ExportCSV(r.Context(), filtersFromQuery(r), actor, auth.MetaFromRequest(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("audit-logs-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		h.Logger.Error("failed to write csv response", "error", err)
	}
}
