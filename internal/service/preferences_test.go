package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

func TestPreferences_DefaultTheme(t *testing.T) {
	prefs := service.NewPreferenceService(newTestStore(t))
	if got := prefs.Theme(context.Background()); got != domain.ThemeLight {
		t.Fatalf("expected light default, got %q", got)
	}
}

func TestPreferences_SetAndGetTheme(t *testing.T) {
	store := newTestStore(t)
	prefs := service.NewPreferenceService(store)
	ctx := context.Background()

	if err := prefs.SetTheme(ctx, domain.ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if got := prefs.Theme(ctx); got != domain.ThemeDark {
		t.Fatalf("expected dark, got %q", got)
	}

	// Persisted: a fresh service over the same store sees the same theme.
	fresh := service.NewPreferenceService(store)
	if got := fresh.Theme(ctx); got != domain.ThemeDark {
		t.Fatalf("expected dark from fresh service, got %q", got)
	}
}

func TestPreferences_RejectsUnknownTheme(t *testing.T) {
	prefs := service.NewPreferenceService(newTestStore(t))

	err := prefs.SetTheme(context.Background(), "sepia")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPreferences_CorruptStoredTheme(t *testing.T) {
	store := newTestStore(t)
	prefs := service.NewPreferenceService(store)
	ctx := context.Background()

	if err := store.Set(ctx, domain.KeyTheme, []byte("not json")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := prefs.Theme(ctx); got != domain.ThemeLight {
		t.Fatalf("expected light fallback, got %q", got)
	}
}
