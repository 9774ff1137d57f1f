package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// ThemeHandler exposes the persisted theme preference.
type ThemeHandler struct {
	prefs *service.PreferenceService
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(prefs *service.PreferenceService) *ThemeHandler {
	return &ThemeHandler{prefs: prefs}
}

// HandleGet returns the current theme.
// GET /api/theme
func (h *ThemeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"theme": h.prefs.Theme(r.Context()),
	})
}

// HandleSet persists the theme.
// PUT /api/theme
// Request: {"theme":"dark"}
func (h *ThemeHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.prefs.SetTheme(r.Context(), req.Theme); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, "Theme must be dark or light.")
			return
		}
		slog.Error("set theme", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}
