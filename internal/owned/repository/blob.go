package repository

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys that cannot name a blob.
var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore persists whole collections as opaque byte blobs.
type BlobStore interface {
	// Load returns the blob stored under key, or nil when there is none.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save replaces the blob under key. A reader never sees a partial write.
	Save(ctx context.Context, key string, data []byte) error
}

func validateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 {
			return ErrInvalidKey
		}
	}
	if key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
