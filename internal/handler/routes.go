package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/genai"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Sessions      *service.SessionService
	Notifications *service.NotificationCenter
	Preferences   *service.PreferenceService
	Views         *service.ViewRouter
	Advisor       *service.AdvisorService
	Chat          *service.ChatService
	Studio        *service.StudioService
	AI            *genai.Client
	LiveRelay     *genai.LiveRelay
	CookieSecure  bool
}

// RegisterRoutes sets up all HTTP routes on the given mux. AI-backed
// endpoints sit behind a per-user token bucket so one user cannot drain the
// provider quota.
func RegisterRoutes(mux *http.ServeMux, svcs Services) {
	authHandler := NewAuthHandler(svcs.Sessions, svcs.Notifications, svcs.CookieSecure)
	profileHandler := NewProfileHandler(svcs.Sessions, svcs.Notifications)
	notificationHandler := NewNotificationHandler(svcs.Notifications)
	viewHandler := NewViewHandler(svcs.Views, svcs.Notifications)
	themeHandler := NewThemeHandler(svcs.Preferences)
	advisorHandler := NewAdvisorHandler(svcs.Advisor)
	chatHandler := NewChatHandler(svcs.Chat)
	studioHandler := NewStudioHandler(svcs.Studio, svcs.Notifications)
	liveHandler := NewLiveHandler(svcs.LiveRelay)
	metaHandler := NewMetaHandler(svcs.AI)

	// One token per AI call, refilling at 1/2s, burst of 10.
	aiLimiter := service.NewTokenBucket(0.5, 10)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(svcs.Sessions, h)
	}
	requireAuthLimited := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(svcs.Sessions, RateLimit(aiLimiter, h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /api/meta", metaHandler.HandleMeta)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.HandleFunc("GET /api/auth/country-codes", authHandler.HandleCountryCodes)
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))

	mux.Handle("PUT /api/profile", requireAuth(profileHandler.HandleUpdate))
	mux.Handle("POST /api/profile/photo", requireAuth(profileHandler.HandleUploadPhoto))

	mux.HandleFunc("GET /api/notifications", notificationHandler.HandleList)
	mux.HandleFunc("GET /api/notifications/stream", notificationHandler.HandleStream)
	mux.HandleFunc("DELETE /api/notifications/{id}", notificationHandler.HandleDismiss)

	mux.HandleFunc("GET /api/view", viewHandler.HandleCurrent)
	mux.HandleFunc("PUT /api/view", viewHandler.HandleSelect)

	mux.HandleFunc("GET /api/theme", themeHandler.HandleGet)
	mux.HandleFunc("PUT /api/theme", themeHandler.HandleSet)

	mux.Handle("POST /api/advisor/compare", requireAuthLimited(advisorHandler.HandleCompare))

	mux.Handle("POST /api/chat", requireAuthLimited(chatHandler.HandleSend))
	mux.Handle("GET /api/chat", requireAuth(chatHandler.HandleHistory))
	mux.Handle("DELETE /api/chat", requireAuth(chatHandler.HandleClear))

	mux.Handle("POST /api/studio/images", requireAuthLimited(studioHandler.HandleGenerate))
	mux.Handle("GET /api/studio/images", requireAuth(studioHandler.HandleList))
	mux.Handle("GET /api/studio/images/{id}/file", requireAuth(studioHandler.HandleGetFile))
	mux.Handle("DELETE /api/studio/images/{id}", requireAuth(studioHandler.HandleDelete))

	mux.Handle("GET /api/live", requireAuth(liveHandler.HandleLive))
}
