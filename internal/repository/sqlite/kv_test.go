package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

func TestKVStore_SetGet(t *testing.T) {
	db := newTestDB(t)
	kv := db.KV(0)
	ctx := context.Background()

	if err := kv.Set(ctx, "pathfinder_theme", []byte(`"dark"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := kv.Get(ctx, "pathfinder_theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`"dark"`)) {
		t.Fatalf("expected %q, got %q", `"dark"`, got)
	}
}

func TestKVStore_Overwrite(t *testing.T) {
	db := newTestDB(t)
	kv := db.KV(0)
	ctx := context.Background()

	if err := kv.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("expected latest value, got %q", got)
	}
}

func TestKVStore_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	kv := db.KV(0)

	_, err := kv.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKVStore_Delete(t *testing.T) {
	db := newTestDB(t)
	kv := db.KV(0)
	ctx := context.Background()

	if err := kv.Set(ctx, "gone", []byte("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := kv.Get(ctx, "gone")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := kv.Delete(ctx, "gone"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestKVStore_QuotaExceeded(t *testing.T) {
	db := newTestDB(t)
	kv := db.KV(16)
	ctx := context.Background()

	err := kv.Set(ctx, "big", bytes.Repeat([]byte("a"), 17))
	if !errors.Is(err, domain.ErrStorageQuota) {
		t.Fatalf("expected ErrStorageQuota, got %v", err)
	}

	// The failed write must not leave a partial entry behind.
	if _, err := kv.Get(ctx, "big"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after rejected write, got %v", err)
	}

	// A value at exactly the quota is accepted.
	if err := kv.Set(ctx, "fits", bytes.Repeat([]byte("a"), 16)); err != nil {
		t.Fatalf("Set at quota: %v", err)
	}
}
