package handler

import (
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// NotificationHandler exposes the toast queue over HTTP: a snapshot list, a
// live SSE stream of queue changes, and early dismissal.
type NotificationHandler struct {
	notifications *service.NotificationCenter
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleList returns the currently active toasts in notification order.
// GET /api/notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"toasts": toToastDTOs(h.notifications.Active()),
	})
}

// HandleStream pushes the toast queue to the client as datastar signal
// patches: one immediately, then one per change, until the client goes away.
// GET /api/notifications/stream
func (h *NotificationHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates, cancel := h.notifications.Subscribe()
	defer cancel()

	if err := sse.MarshalAndPatchSignals(map[string]any{
		"toasts": toToastDTOs(h.notifications.Active()),
	}); err != nil {
		slog.Error("patch toast signals", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.MarshalAndPatchSignals(map[string]any{
				"toasts": toToastDTOs(snapshot),
			}); err != nil {
				slog.Error("patch toast signals", "error", err)
				return
			}
		}
	}
}

// HandleDismiss removes a toast before its timeout. Unknown IDs are fine; the
// toast may simply have expired already.
// DELETE /api/notifications/{id}
func (h *NotificationHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.notifications.Dismiss(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
