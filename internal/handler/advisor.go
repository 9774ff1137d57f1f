package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// AdvisorHandler handles the approach-comparison requests.
type AdvisorHandler struct {
	advisor  *service.AdvisorService
	validate *validator.Validate
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisor *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisor: advisor, validate: validator.New()}
}

// HandleCompare scores the four development approaches for the student's
// project constraints.
// POST /api/advisor/compare
// Request:  {"timeAvailable":"...","skillLevel":"...","projectType":"...","mainGoal":"..."}
// Response: {"metrics": [...]}
func (h *AdvisorHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var input domain.UserProjectInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "All project fields are required.")
		return
	}

	metrics, err := h.advisor.Compare(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("compare approaches", "error", err)
		writeError(w, http.StatusBadGateway, "The advisor is unavailable right now. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"metrics": metrics,
	})
}
