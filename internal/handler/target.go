package handler

import (
	"log/slog"
	"net/http"

	"salespulse/internal/model"
	"salespulse/internal/store"
)

type TargetHandler struct {
	targets *store.TargetStore
	logger  *slog.Logger
}

func NewTargetHandler(ts *store.TargetStore, logger *slog.Logger) *TargetHandler {
	return &TargetHandler{targets: ts, logger: logger}
}

// List serves GET /api/targets/{period}/{employee_id}.
func (h *TargetHandler) List(w http.ResponseWriter, r *http.Request) {
	period := r.PathValue("period")
	if period != "daily" && period != "weekly" {
		writeError(w, http.StatusBadRequest, "Period must be daily or weekly")
		return
	}
	employeeID := r.PathValue("employee_id")

	targets, err := h.targets.ListByPeriod(employeeID, period)
	if err != nil {
		h.logger.Error("list targets", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch targets")
		return
	}
	if targets == nil {
		targets = []model.Target{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"targets": targets,
	})
}
