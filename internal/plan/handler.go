package plan

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/procureops/procurement-portal/internal/transport"
	"github.com/procureops/procurement-portal/pkg/logger"
)

type ServiceAPI interface {
	ListPlans(query string) ([]*ProcurementPlan, error)
	GetPlan(id int64) (*ProcurementPlan, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Service.ListPlans(r.URL.Query().Get("q"))
	if err != nil {
		h.Logger.Error("ListPlans: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	if plans == nil {
		plans = []*ProcurementPlan{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetPlan: invalid plan ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid plan ID")
		return
	}

	p, err := h.Service.GetPlan(id)
	if err != nil {
		h.Logger.Error("GetPlan: service error", "error", err, "plan_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}
