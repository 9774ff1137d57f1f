package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// ViewHandler exposes the active-view selection.
type ViewHandler struct {
	views         *service.ViewRouter
	notifications *service.NotificationCenter
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(views *service.ViewRouter, notifications *service.NotificationCenter) *ViewHandler {
	return &ViewHandler{views: views, notifications: notifications}
}

// HandleCurrent returns the selected view.
// GET /api/view
func (h *ViewHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	view := h.views.Current()
	writeJSON(w, http.StatusOK, map[string]string{
		"view":  string(view),
		"label": view.Label(),
	})
}

// HandleSelect switches to the requested view.
// PUT /api/view
// Request: {"view":"chat"}
func (h *ViewHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View string `json:"view"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	view := domain.View(req.View)
	if err := h.views.Select(view); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, "Unknown view.")
			return
		}
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.notifications.Notify(fmt.Sprintf("Switched to %s", view.Label()), domain.SeverityInfo)
	writeJSON(w, http.StatusOK, map[string]string{
		"view":  string(view),
		"label": view.Label(),
	})
}
