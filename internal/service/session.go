package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// SessionService is the Session Manager: it tracks the single
// currently-authenticated user, persisted in the store and mirrored in
// memory. It also issues and validates the HS256 tokens the HTTP layer uses
// as transport identity; the persisted session stays canonical, and a token
// only counts if it agrees with it.
type SessionService struct {
	mu        sync.Mutex
	store     domain.KVStore
	registry  *Registry
	jwtSecret []byte
	current   *domain.Session
}

// NewSessionService creates a SessionService over the given registry and
// Persistent Store.
func NewSessionService(registry *Registry, store domain.KVStore, jwtSecret string) *SessionService {
	return &SessionService{
		store:     store,
		registry:  registry,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new account and immediately establishes a session for
// it; no separate login step follows registration.
func (s *SessionService) Register(ctx context.Context, name, mobile string) (*domain.Session, error) {
	user, err := s.registry.Register(ctx, name, mobile)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, user)
}

// Login looks the mobile number up in the registry and establishes a session
// on a hit. A miss yields ErrAccountNotFound without touching the current
// session; the error reveals nothing about whether the number is otherwise
// well-formed.
func (s *SessionService) Login(ctx context.Context, mobile string) (*domain.Session, error) {
	user, err := s.registry.FindByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}
	return s.establish(ctx, user)
}

// Restore reads the persisted active session, if any. It is invoked once at
// startup. An absent or unparsable stored session yields no session rather
// than a startup failure.
func (s *SessionService) Restore(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, domain.KeyActiveUser)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		s.current = nil
		return nil, nil
	default:
		return nil, fmt.Errorf("read active session: %w", err)
	}

	var user domain.UserRecord
	if jsonErr := json.Unmarshal(data, &user); jsonErr != nil || user.Mobile == "" {
		slog.Warn("stored session is unparsable, starting unauthenticated", "error", jsonErr)
		s.current = nil
		return nil, nil
	}

	s.current = &domain.Session{User: user}
	return s.current, nil
}

// Current returns the active session, or nil.
func (s *SessionService) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	session := *s.current
	return &session
}

// UpdateProfile applies the patch to the active user in both the registry and
// the session. The registry is written first, then the session mirror; both
// writes happen under the session lock so no reader observes the pair out of
// sync.
func (s *SessionService) UpdateProfile(ctx context.Context, patch domain.UserPatch) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, domain.ErrUnauthorized
	}

	updated, err := s.registry.Update(ctx, s.current.User.Mobile, patch)
	if err != nil {
		return nil, err
	}

	if err := s.persistActive(ctx, updated); err != nil {
		return nil, err
	}
	s.current = &domain.Session{User: updated}
	session := *s.current
	return &session, nil
}

// Logout clears the active session from the store and from memory. The
// underlying registry record is untouched; a later login with the same
// mobile number succeeds.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, domain.KeyActiveUser); err != nil {
		return fmt.Errorf("clear active session: %w", err)
	}
	s.current = nil
	return nil
}

// IssueToken signs a token identifying the given user for the cookie surface.
func (s *SessionService) IssueToken(user domain.UserRecord) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Mobile,
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and validates a token string and returns the mobile
// number from the sub claim.
func (s *SessionService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}

	return sub, nil
}

// establish persists the given user as the active session and mirrors it in
// memory. The store write happens first; on failure the previous session
// remains in effect.
func (s *SessionService) establish(ctx context.Context, user domain.UserRecord) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistActive(ctx, user); err != nil {
		return nil, err
	}
	s.current = &domain.Session{User: user}
	session := *s.current
	return &session, nil
}

func (s *SessionService) persistActive(ctx context.Context, user domain.UserRecord) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode active session: %w", err)
	}
	if err := s.store.Set(ctx, domain.KeyActiveUser, data); err != nil {
		return fmt.Errorf("persist active session: %w", err)
	}
	return nil
}
