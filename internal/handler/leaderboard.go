package handler

import (
	"log/slog"
	"net/http"

	"salespulse/internal/model"
	"salespulse/internal/store"
)

type LeaderboardHandler struct {
	leaderboard *store.LeaderboardStore
	logger      *slog.Logger
}

func NewLeaderboardHandler(ls *store.LeaderboardStore, logger *slog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: ls, logger: logger}
}

// List serves GET /api/leaderboard/{employee_id}?period={day|week}&layer={city|cluster}.
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.PathValue("employee_id")

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "day"
	}
	if period != "day" && period != "week" {
		writeError(w, http.StatusBadRequest, "Period must be day or week")
		return
	}

	layer := r.URL.Query().Get("layer")
	if layer == "" {
		layer = "city"
	}
	if layer != "city" && layer != "cluster" {
		writeError(w, http.StatusBadRequest, "Layer must be city or cluster")
		return
	}

	rankings, err := h.leaderboard.ListForEmployee(employeeID, period, layer)
	if err != nil {
		h.logger.Error("list leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}
	if rankings == nil {
		rankings = []model.RankEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"rankings": rankings,
		"grouped":  layer == "cluster",
	})
}
