package service

import (
	"fmt"
	"sync"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// ViewRouter selects one of the four mutually-exclusive application views.
// The selection is purely in-memory and resets to the default on restart.
// Switching views does not tear down any feature module's state; each module
// owns its own lifecycle.
type ViewRouter struct {
	mu      sync.Mutex
	current domain.View
}

// NewViewRouter creates a router showing the default view.
func NewViewRouter() *ViewRouter {
	return &ViewRouter{current: domain.DefaultView}
}

// Current returns the selected view.
func (v *ViewRouter) Current() domain.View {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Select switches to the given view. Values outside the closed enumeration
// are rejected.
func (v *ViewRouter) Select(view domain.View) error {
	if !view.Valid() {
		return fmt.Errorf("%w: unknown view %q", domain.ErrInvalidInput, view)
	}

	v.mu.Lock()
	v.current = view
	v.mu.Unlock()
	return nil
}
