package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

const testJWTSecret = "test-secret-key-that-is-long-enough!"

func newTestSession(t *testing.T) (*service.SessionService, domain.KVStore) {
	t.Helper()
	store := newTestStore(t)
	registry := service.NewRegistry(store)
	return service.NewSessionService(registry, store, testJWTSecret), store
}

func TestSession_RegisterEstablishesSession(t *testing.T) {
	sessions, _ := newTestSession(t)
	ctx := context.Background()

	sess, err := sessions.Register(ctx, "Ada", "+1555123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.User.Name != "Ada" {
		t.Fatalf("unexpected session user: %+v", sess.User)
	}

	current := sessions.Current()
	if current == nil || current.User.Mobile != "+1555123" {
		t.Fatalf("expected current session for +1555123, got %+v", current)
	}
}

func TestSession_RestoreAcrossInstances(t *testing.T) {
	sessions, store := newTestSession(t)
	ctx := context.Background()

	if _, err := sessions.Register(ctx, "Ada", "+1555123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A fresh service over the same store restores the session at startup.
	fresh := service.NewSessionService(service.NewRegistry(store), store, testJWTSecret)
	restored, err := fresh.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored == nil || restored.User.Mobile != "+1555123" {
		t.Fatalf("expected restored session for +1555123, got %+v", restored)
	}
}

func TestSession_RestoreWithoutStoredSession(t *testing.T) {
	sessions, _ := newTestSession(t)

	restored, err := sessions.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != nil {
		t.Fatalf("expected no session, got %+v", restored)
	}
}

func TestSession_RestoreCorruptStoredSession(t *testing.T) {
	sessions, store := newTestSession(t)
	ctx := context.Background()

	if err := store.Set(ctx, domain.KeyActiveUser, []byte("][")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	restored, err := sessions.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored != nil {
		t.Fatalf("expected unauthenticated start, got %+v", restored)
	}
}

func TestSession_LoginUnknownMobile(t *testing.T) {
	sessions, _ := newTestSession(t)
	ctx := context.Background()

	if _, err := sessions.Register(ctx, "Ada", "+1555123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := sessions.Login(ctx, "+4400000")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	// The failed login must not disturb the existing session.
	current := sessions.Current()
	if current == nil || current.User.Mobile != "+1555123" {
		t.Fatalf("expected session to survive failed login, got %+v", current)
	}
}

func TestSession_LogoutThenLogin(t *testing.T) {
	sessions, _ := newTestSession(t)
	ctx := context.Background()

	if _, err := sessions.Register(ctx, "Ada", "+1555123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := sessions.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.Current() != nil {
		t.Fatal("expected no session after logout")
	}

	// The account itself survives logout.
	sess, err := sessions.Login(ctx, "+1555123")
	if err != nil {
		t.Fatalf("Login after logout: %v", err)
	}
	if sess.User.Name != "Ada" {
		t.Fatalf("unexpected user after re-login: %+v", sess.User)
	}
}

func TestSession_UpdateProfile(t *testing.T) {
	sessions, store := newTestSession(t)
	ctx := context.Background()

	if _, err := sessions.Register(ctx, "Ada", "+1555123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	newName := "Ada L."
	newMobile := "+44777999"
	sess, err := sessions.UpdateProfile(ctx, domain.UserPatch{Name: &newName, Mobile: &newMobile})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if sess.User.Name != "Ada L." || sess.User.Mobile != "+44777999" {
		t.Fatalf("unexpected session after update: %+v", sess.User)
	}

	// Registry and session agree on the new mobile.
	registry := service.NewRegistry(store)
	if _, err := registry.FindByMobile(ctx, "+44777999"); err != nil {
		t.Fatalf("FindByMobile new: %v", err)
	}
	if _, err := registry.FindByMobile(ctx, "+1555123"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected old mobile gone from registry, got %v", err)
	}
}

func TestSession_UpdateProfileWithoutSession(t *testing.T) {
	sessions, _ := newTestSession(t)

	name := "Ada"
	_, err := sessions.UpdateProfile(context.Background(), domain.UserPatch{Name: &name})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSession_TokenRoundTrip(t *testing.T) {
	sessions, _ := newTestSession(t)

	user := domain.UserRecord{Name: "Ada", Mobile: "+1555123"}
	token, err := sessions.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	mobile, err := sessions.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if mobile != "+1555123" {
		t.Fatalf("expected subject +1555123, got %q", mobile)
	}
}

func TestSession_ValidateTokenRejectsGarbage(t *testing.T) {
	sessions, _ := newTestSession(t)

	if _, err := sessions.ValidateToken("not.a.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSession_ValidateTokenRejectsWrongSecret(t *testing.T) {
	sessions, store := newTestSession(t)

	token, err := sessions.IssueToken(domain.UserRecord{Name: "Ada", Mobile: "+1555123"})
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	other := service.NewSessionService(service.NewRegistry(store), store, "another-secret-entirely-0123456789")
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
