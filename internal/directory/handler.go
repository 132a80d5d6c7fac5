package directory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/procureops/procurement-portal/internal/transport"
	"github.com/procureops/procurement-portal/pkg/logger"
)

type LookupAPI interface {
	Lookup(ctx context.Context, employeeID string) (*Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Client LookupAPI
}

func NewHandler(client LookupAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Client:      client,
	}
}

// GetEmployee proxies a directory lookup, used by the portal to auto-fill
// member rows from a typed employee id.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	emp, err := h.Client.Lookup(r.Context(), employeeID)
	if err != nil {
		h.Logger.Error("GetEmployee: lookup failed", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}
