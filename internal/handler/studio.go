package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

const maxStudioUploadSize = 10 * 1024 * 1024 // 10MB

// StudioHandler handles image generation HTTP requests.
type StudioHandler struct {
	studio        *service.StudioService
	notifications *service.NotificationCenter
}

// NewStudioHandler creates a new StudioHandler.
func NewStudioHandler(studio *service.StudioService, notifications *service.NotificationCenter) *StudioHandler {
	return &StudioHandler{studio: studio, notifications: notifications}
}

// HandleGenerate produces an image from a prompt, optionally editing an
// uploaded source image.
// POST /api/studio/images (multipart: prompt, size, optional "image" file)
// Response: {"image": {...}}
func (h *StudioHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if err := r.ParseMultipartForm(maxStudioUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload. Source images are limited to 10MB.")
		return
	}

	prompt := r.FormValue("prompt")
	size := domain.ImageSize(r.FormValue("size"))

	var source []byte
	var sourceType string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		source, err = io.ReadAll(io.LimitReader(file, maxStudioUploadSize+1))
		if err != nil {
			slog.Error("read source image", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
			return
		}
		sourceType = header.Header.Get("Content-Type")
	}

	image, err := h.studio.Generate(r.Context(), user.Mobile, prompt, size, source, sourceType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrStorageQuota):
			h.notifications.Notify("Storage is full. Remove some data and try again.", domain.SeverityError)
			writeError(w, http.StatusInsufficientStorage, "Storage is full. Remove some data and try again.")
		default:
			slog.Error("generate studio image", "error", err)
			writeError(w, http.StatusBadGateway, "Image generation is unavailable right now. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"image": toStudioImageDTO(image),
	})
}

// HandleList returns the authenticated user's generated images.
// GET /api/studio/images
func (h *StudioHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	images, err := h.studio.List(r.Context(), user.Mobile)
	if err != nil {
		slog.Error("list studio images", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"images": toStudioImageDTOs(images),
	})
}

// HandleGetFile serves the bytes of one of the user's images.
// GET /api/studio/images/{id}/file
func (h *StudioHandler) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	data, contentType, err := h.studio.GetFile(r.Context(), user.Mobile, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		slog.Error("get studio image", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleDelete removes one of the user's images.
// DELETE /api/studio/images/{id}
func (h *StudioHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if err := h.studio.Delete(r.Context(), user.Mobile, r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found.")
			return
		}
		slog.Error("delete studio image", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
