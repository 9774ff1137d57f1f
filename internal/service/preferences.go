package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// PreferenceService persists UI preferences that live alongside, but
// independently of, the session. Today that is only the theme.
type PreferenceService struct {
	store domain.KVStore
}

// NewPreferenceService creates a PreferenceService over the given store.
func NewPreferenceService(store domain.KVStore) *PreferenceService {
	return &PreferenceService{store: store}
}

// Theme returns the persisted theme, defaulting to light when the value is
// absent or unreadable.
func (s *PreferenceService) Theme(ctx context.Context) string {
	data, err := s.store.Get(ctx, domain.KeyTheme)
	if err != nil {
		return domain.ThemeLight
	}

	var theme string
	if err := json.Unmarshal(data, &theme); err != nil {
		return domain.ThemeLight
	}
	if theme != domain.ThemeDark && theme != domain.ThemeLight {
		return domain.ThemeLight
	}
	return theme
}

// SetTheme persists the theme. Only "dark" and "light" are accepted.
func (s *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if theme != domain.ThemeDark && theme != domain.ThemeLight {
		return fmt.Errorf("%w: unknown theme %q", domain.ErrInvalidInput, theme)
	}

	data, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := s.store.Set(ctx, domain.KeyTheme, data); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}
