package domain

import (
	"context"
	"time"
)

// ImageSize selects the output resolution for studio generations.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"
)

// Valid reports whether s is a supported output size.
func (s ImageSize) Valid() bool {
	switch s {
	case ImageSize1K, ImageSize2K, ImageSize4K:
		return true
	}
	return false
}

// StudioImage holds metadata about a generated image. The bytes live in the
// FileStore under StorageKey; the metadata index is kept in the Persistent
// Store per user.
type StudioImage struct {
	ID          string    `json:"id"`
	OwnerMobile string    `json:"ownerMobile"`
	Prompt      string    `json:"prompt"`
	Size        ImageSize `json:"size"`
	ContentType string    `json:"contentType"`
	StorageKey  string    `json:"storageKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LiveRelay dials the provider's live audio endpoint and bridges it with the
// client connection. Audio encoding is opaque at this boundary.
type LiveRelay interface {
	Connect(ctx context.Context) (LiveConn, error)
}

// LiveConn is a bidirectional frame transport to the provider.
type LiveConn interface {
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}
