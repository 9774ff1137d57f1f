package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

const maxPhotoUploadSize = 5 * 1024 * 1024 // 5MB

// ProfileHandler handles profile update HTTP requests.
type ProfileHandler struct {
	sessions      *service.SessionService
	notifications *service.NotificationCenter
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(sessions *service.SessionService, notifications *service.NotificationCenter) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, notifications: notifications}
}

// HandleUpdate applies a partial profile update to the active user. A mobile
// change must keep the number unique across accounts.
// PUT /api/profile
// Request:  {"name":"...","countryCode":"+1","mobile":"..."} (all optional;
// countryCode and mobile come together)
// Response: {"user": {...}}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		CountryCode *string `json:"countryCode"`
		Mobile      *string `json:"mobile"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	patch := domain.UserPatch{Name: req.Name}
	if req.Mobile != nil {
		if req.CountryCode == nil {
			writeError(w, http.StatusUnprocessableEntity, "Country code is required with a mobile number.")
			return
		}
		full := *req.CountryCode + *req.Mobile
		patch.Mobile = &full
	}

	sess, err := h.sessions.UpdateProfile(r.Context(), patch)
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	h.notifications.Notify("Profile updated successfully", domain.SeveritySuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(sess.User),
	})
}

// HandleUploadPhoto stores an uploaded profile photo on the active user's
// record as a data URI.
// POST /api/profile/photo (multipart, field "photo")
// Response: {"user": {...}}
func (h *ProfileHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload. Photos are limited to 5MB.")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "A photo file is required.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/webp" {
		writeError(w, http.StatusUnsupportedMediaType, "Only JPEG, PNG, and WebP photos are accepted.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadSize+1))
	if err != nil {
		slog.Error("read photo upload", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if len(data) > maxPhotoUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "Photos are limited to 5MB.")
		return
	}

	photo := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
	sess, err := h.sessions.UpdateProfile(r.Context(), domain.UserPatch{Photo: &photo})
	if err != nil {
		h.writeUpdateError(w, err)
		return
	}

	h.notifications.Notify("Profile updated successfully", domain.SeveritySuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(sess.User),
	})
}

func (h *ProfileHandler) writeUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
	case errors.Is(err, domain.ErrDuplicateMobile):
		h.notifications.Notify("Mobile number already registered. Try logging in.", domain.SeverityError)
		writeError(w, http.StatusConflict, "That mobile number belongs to another account.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrStorageQuota):
		h.notifications.Notify("Storage is full. Remove some data and try again.", domain.SeverityError)
		writeError(w, http.StatusInsufficientStorage, "Storage is full. Remove some data and try again.")
	default:
		slog.Error("update profile", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
