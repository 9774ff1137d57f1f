package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// ChatHandler handles the mentor-chat requests.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// HandleSend appends a user message and returns the model's reply.
// POST /api/chat
// Request:  {"text":"..."}
// Response: {"message": {...}}
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	reply, err := h.chat.Send(r.Context(), user.Mobile, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, "A message is required.")
			return
		}
		slog.Error("send chat message", "error", err)
		writeError(w, http.StatusBadGateway, "The mentor is unavailable right now. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": toChatMessageDTO(reply),
	})
}

// HandleHistory returns the transcript for the authenticated user.
// GET /api/chat
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": toChatMessageDTOs(h.chat.History(user.Mobile)),
	})
}

// HandleClear discards the transcript for the authenticated user.
// DELETE /api/chat
func (h *ChatHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	h.chat.Clear(user.Mobile)
	w.WriteHeader(http.StatusNoContent)
}
