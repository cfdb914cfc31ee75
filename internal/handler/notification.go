package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"salespulse/internal/model"
	"salespulse/internal/notify"
	"salespulse/internal/store"
)

const notificationFeedLimit = 20

type NotificationHandler struct {
	notifications *store.NotificationStore
	hub           *notify.Hub
	logger        *slog.Logger
}

func NewNotificationHandler(ns *store.NotificationStore, hub *notify.Hub, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: ns, hub: hub, logger: logger}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifications.ListRecent(notificationFeedLimit)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	if list == nil {
		list = []model.Notification{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"notifications": list,
	})
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	n, err := h.notifications.Create(req.Title, req.Body)
	if err != nil {
		h.logger.Error("create notification", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	h.hub.NotificationCreated(n)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"notification": n,
	})
}
