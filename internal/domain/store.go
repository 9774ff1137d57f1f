package domain

import "context"

// Persistent Store keys. The layout mirrors the browser-era storage schema so
// existing exports remain readable.
const (
	KeyAllUsers     = "pathfinder_all_users"
	KeyActiveUser   = "pathfinder_active_user"
	KeyTheme        = "pathfinder_theme"
	KeyStudioImages = "pathfinder_studio_images" // suffixed with ":<mobile>" per user
)

// KVStore is the durable, string-keyed Persistent Store. Values are
// serialized JSON documents. Implementations enforce a per-value size quota
// and return ErrStorageQuota when a write exceeds it, and ErrNotFound when a
// key is absent.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// FileStore abstracts raw file byte storage for generated studio images.
// The default implementation stores BLOBs in SQLite; the S3 implementation
// allows moving bytes out of the database without touching callers.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
