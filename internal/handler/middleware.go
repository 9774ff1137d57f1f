package handler

import (
	"context"
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.UserRecord {
	user, _ := ctx.Value(userContextKey).(*domain.UserRecord)
	return user
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the auth_token cookie, validates the JWT, and checks that the
// token's subject matches the active session. A token without a matching
// session does not authenticate: the session stays canonical.
// Returns 401 for unauthenticated requests.
func RequireAuth(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, sessions)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is middleware that attempts to authenticate but does not block
// unauthenticated requests. If a valid token is present, the user is injected
// into context; otherwise the request proceeds without a user.
func OptionalAuth(sessions *service.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := authenticateRequest(r, sessions)
		if err == nil && user != nil {
			ctx := context.WithValue(r.Context(), userContextKey, user)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func authenticateRequest(r *http.Request, sessions *service.SessionService) (*domain.UserRecord, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, err
	}

	mobile, err := sessions.ValidateToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	current := sessions.Current()
	if current == nil || current.User.Mobile != mobile {
		return nil, domain.ErrUnauthorized
	}

	user := current.User
	return &user, nil
}

// RateLimit throttles requests per authenticated user (falling back to the
// remote address) using the given token bucket. Exhausted buckets get 429.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if user := UserFromContext(r.Context()); user != nil {
			key = user.Mobile
		}
		if !limiter.Allow(key) {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets common security response headers on every request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
