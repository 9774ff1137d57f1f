package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
)

func TestFileStore_SaveGetDelete(t *testing.T) {
	db := newTestDB(t)
	files := db.Files()
	ctx := context.Background()

	data := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	if err := files.Save(ctx, "studio-images/abc", data); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := files.Get(ctx, "studio-images/abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("expected stored bytes to round-trip unchanged")
	}

	if err := files.Delete(ctx, "studio-images/abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := files.Get(ctx, "studio-images/abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStore_Get_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Files().Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
