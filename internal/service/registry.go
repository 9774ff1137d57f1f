package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

// Registry is the Identity Registry: the ordered collection of user records
// persisted under a single Persistent Store key. It keeps an in-memory mirror
// loaded on first use and written through on every mutation.
//
// Every mutating operation serializes the entire collection back to the
// store. This is a known scaling limit accepted deliberately: the expected
// collection size is small, and switching to incremental writes would change
// the failure and atomicity behavior callers rely on.
//
// A Registry is safe for concurrent use within one process. Concurrent
// mutation from a second process sharing the same store is last-writer-wins.
type Registry struct {
	mu     sync.Mutex
	store  domain.KVStore
	users  []domain.UserRecord
	loaded bool
}

// NewRegistry creates a Registry over the given Persistent Store.
func NewRegistry(store domain.KVStore) *Registry {
	return &Registry{store: store}
}

// Register appends a new user record. It fails with ErrDuplicateMobile if a
// record with the same full mobile number already exists, leaving the
// registry unchanged.
func (r *Registry) Register(ctx context.Context, name, mobile string) (domain.UserRecord, error) {
	if name == "" || mobile == "" {
		return domain.UserRecord{}, fmt.Errorf("%w: name and mobile number are required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return domain.UserRecord{}, err
	}

	if r.indexOf(mobile) != -1 {
		return domain.UserRecord{}, domain.ErrDuplicateMobile
	}

	user := domain.UserRecord{Name: name, Mobile: mobile}
	r.users = append(r.users, user)
	if err := r.persist(ctx); err != nil {
		r.users = r.users[:len(r.users)-1]
		return domain.UserRecord{}, err
	}
	return user, nil
}

// FindByMobile returns the record with the given full mobile number, or
// ErrNotFound. Lookup is a linear scan; see the type comment on scale.
func (r *Registry) FindByMobile(ctx context.Context, mobile string) (domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return domain.UserRecord{}, err
	}

	i := r.indexOf(mobile)
	if i == -1 {
		return domain.UserRecord{}, domain.ErrNotFound
	}
	return r.users[i], nil
}

// Update locates the record by its pre-patch mobile number and replaces it in
// place, preserving registration order. The patch may change the mobile
// number itself; the old number is used only to locate the record. A mobile
// change that would collide with another record fails with ErrDuplicateMobile
// so the one-record-per-mobile invariant holds across updates.
func (r *Registry) Update(ctx context.Context, mobile string, patch domain.UserPatch) (domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return domain.UserRecord{}, err
	}

	i := r.indexOf(mobile)
	if i == -1 {
		return domain.UserRecord{}, domain.ErrNotFound
	}

	updated := patch.Apply(r.users[i])
	if updated.Name == "" || updated.Mobile == "" {
		return domain.UserRecord{}, fmt.Errorf("%w: name and mobile number must not be empty", domain.ErrInvalidInput)
	}
	if updated.Mobile != mobile {
		if j := r.indexOf(updated.Mobile); j != -1 && j != i {
			return domain.UserRecord{}, domain.ErrDuplicateMobile
		}
	}

	previous := r.users[i]
	r.users[i] = updated
	if err := r.persist(ctx); err != nil {
		r.users[i] = previous
		return domain.UserRecord{}, err
	}
	return updated, nil
}

// All returns the records in registration order.
func (r *Registry) All(ctx context.Context) ([]domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.UserRecord, len(r.users))
	copy(out, r.users)
	return out, nil
}

// load populates the in-memory mirror on first use. An absent key or
// unparsable stored value yields an empty registry: corruption is a recovery
// default here, never a startup failure.
func (r *Registry) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	data, err := r.store.Get(ctx, domain.KeyAllUsers)
	switch {
	case err == nil:
		var users []domain.UserRecord
		if jsonErr := json.Unmarshal(data, &users); jsonErr != nil {
			slog.Warn("stored registry is unparsable, starting empty", "error", jsonErr)
			users = nil
		}
		r.users = users
	case errors.Is(err, domain.ErrNotFound):
		r.users = nil
	default:
		return fmt.Errorf("load registry: %w", err)
	}

	r.loaded = true
	return nil
}

func (r *Registry) persist(ctx context.Context) error {
	data, err := json.Marshal(r.users)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := r.store.Set(ctx, domain.KeyAllUsers, data); err != nil {
		return fmt.Errorf("persist registry: %w", err)
	}
	return nil
}

// indexOf must be called with the lock held and the mirror loaded.
func (r *Registry) indexOf(mobile string) int {
	for i, u := range r.users {
		if u.Mobile == mobile {
			return i
		}
	}
	return -1
}
