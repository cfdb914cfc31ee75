package handler

import (
	"log/slog"
	"net/http"

	"salespulse/internal/model"
	"salespulse/internal/store"
)

type CustomerHandler struct {
	customers *store.CustomerStore
	logger    *slog.Logger
}

func NewCustomerHandler(cs *store.CustomerStore, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: cs, logger: logger}
}

// ListZone serves GET /api/customers/{zone}/{employee_id} where zone is
// nudge-zone or so-close.
func (h *CustomerHandler) ListZone(w http.ResponseWriter, r *http.Request) {
	zone := r.PathValue("zone")
	if zone != "nudge-zone" && zone != "so-close" {
		writeError(w, http.StatusBadRequest, "Unknown customer list")
		return
	}
	employeeID := r.PathValue("employee_id")

	customers, err := h.customers.ListByZone(employeeID, zone)
	if err != nil {
		h.logger.Error("list customers", "zone", zone, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"customers": customers,
	})
}

// ListForTarget serves GET /api/target-customers/{employee_id}?metric=&period=.
func (h *CustomerHandler) ListForTarget(w http.ResponseWriter, r *http.Request) {
	employeeID := r.PathValue("employee_id")
	metric := r.URL.Query().Get("metric")
	period := r.URL.Query().Get("period")
	if metric == "" || period == "" {
		writeError(w, http.StatusBadRequest, "Metric and period are required")
		return
	}

	customers, err := h.customers.ListTargetCustomers(employeeID, metric, period)
	if err != nil {
		h.logger.Error("list target customers", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch customers")
		return
	}
	if customers == nil {
		customers = []model.TargetCustomer{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"customers": customers,
	})
}
