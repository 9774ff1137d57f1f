package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/genai"
)

const (
	appName    = "Pathfinder AI"
	appVersion = "1.0.0"
)

// MetaHandler reports application metadata and provider reachability.
type MetaHandler struct {
	ai *genai.Client
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(ai *genai.Client) *MetaHandler {
	return &MetaHandler{ai: ai}
}

// HandleMeta returns the app name, version, and whether the AI provider
// currently answers its health probe.
// GET /api/meta
func (h *MetaHandler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":            appName,
		"version":         appVersion,
		"providerHealthy": h.ai.Healthy(r.Context()),
	})
}
