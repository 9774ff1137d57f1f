package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// CountryCode pairs a dialing prefix with its country for the signup picker.
type CountryCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}

var countryCodes = []CountryCode{
	{Code: "+1", Country: "United States"},
	{Code: "+44", Country: "United Kingdom"},
	{Code: "+91", Country: "India"},
	{Code: "+61", Country: "Australia"},
	{Code: "+49", Country: "Germany"},
	{Code: "+33", Country: "France"},
	{Code: "+81", Country: "Japan"},
	{Code: "+86", Country: "China"},
	{Code: "+55", Country: "Brazil"},
	{Code: "+971", Country: "UAE"},
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	sessions      *service.SessionService
	notifications *service.NotificationCenter
	validate      *validator.Validate
	cookieSecure  bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *service.SessionService, notifications *service.NotificationCenter, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		sessions:      sessions,
		notifications: notifications,
		validate:      validator.New(),
		cookieSecure:  cookieSecure,
	}
}

// HandleRegister processes a JSON registration request. Registration
// establishes the session immediately; there is no separate login step.
// POST /api/auth/register
// Request:  {"name":"...","countryCode":"+1","mobile":"5551234567"}
// Response: {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		CountryCode string `json:"countryCode" validate:"required"`
		Mobile      string `json:"mobile" validate:"required"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Name, country code, and mobile number are required.")
		return
	}

	sess, err := h.sessions.Register(r.Context(), req.Name, req.CountryCode+req.Mobile)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateMobile) {
			h.notifications.Notify("Mobile number already registered. Try logging in.", domain.SeverityError)
			writeError(w, http.StatusConflict, "Mobile number already registered. Try logging in.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if errors.Is(err, domain.ErrStorageQuota) {
			writeError(w, http.StatusInsufficientStorage, "Storage is full. Remove some data and try again.")
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	if err := h.setAuthCookie(w, sess.User); err != nil {
		slog.Error("issue token after register", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.notifications.Notify(fmt.Sprintf("Welcome, %s!", sess.User.Name), domain.SeveritySuccess)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(sess.User),
	})
}

// HandleLogin processes a JSON login request. Only the mobile number is
// checked; no password or verification code exists in this flow.
// POST /api/auth/login
// Request:  {"countryCode":"+1","mobile":"5551234567"}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountryCode string `json:"countryCode" validate:"required"`
		Mobile      string `json:"mobile" validate:"required"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Country code and mobile number are required.")
		return
	}

	sess, err := h.sessions.Login(r.Context(), req.CountryCode+req.Mobile)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			h.notifications.Notify("Account not found with this mobile number.", domain.SeverityError)
			writeError(w, http.StatusNotFound, "Account not found with this mobile number.")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	if err := h.setAuthCookie(w, sess.User); err != nil {
		slog.Error("issue token after login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.notifications.Notify(fmt.Sprintf("Welcome back, %s!", sess.User.Name), domain.SeveritySuccess)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(sess.User),
	})
}

// HandleLogout clears the session and the auth cookie. The account itself
// survives; a later login with the same number succeeds.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		slog.Error("logout", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	h.notifications.Notify("Logged out successfully", domain.SeverityInfo)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(*user),
	})
}

// HandleCountryCodes returns the dialing prefixes offered at signup.
// GET /api/auth/country-codes
func (h *AuthHandler) HandleCountryCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"countryCodes": countryCodes,
	})
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, user domain.UserRecord) error {
	token, err := h.sessions.IssueToken(user)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
	return nil
}
