package handler

import (
	"log/slog"
	"net/http"

	"salespulse/internal/store"
)

type IncentiveHandler struct {
	incentives *store.IncentiveStore
	logger     *slog.Logger
}

func NewIncentiveHandler(is *store.IncentiveStore, logger *slog.Logger) *IncentiveHandler {
	return &IncentiveHandler{incentives: is, logger: logger}
}

// Get serves GET /api/incentives/{period}/{employee_id}.
func (h *IncentiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	period := r.PathValue("period")
	if period != "daily" && period != "weekly" {
		writeError(w, http.StatusBadRequest, "Period must be daily or weekly")
		return
	}
	employeeID := r.PathValue("employee_id")

	sum, err := h.incentives.GetByPeriod(employeeID, period)
	if err != nil {
		h.logger.Error("get incentives", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch incentives")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"incentives": sum,
	})
}
