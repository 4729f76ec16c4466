package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

// FileBlobStore keeps each blob in <dir>/<key>.json.
type FileBlobStore struct {
	fs     afero.Fs
	dir    string
	logger interfaces.Logger
}

// NewFileBlobStore creates the data directory if needed.
func NewFileBlobStore(fs afero.Fs, dir string, logger interfaces.Logger) (*FileBlobStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	return &FileBlobStore{
		fs:     fs,
		dir:    dir,
		logger: logger,
	}, nil
}

func (s *FileBlobStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the blob file.
func (s *FileBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over
// the blob file.
func (s *FileBlobStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := afero.TempFile(s.fs, s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if rmErr := s.fs.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove temp blob file",
				interfaces.String("path", tmpName),
				interfaces.Error(rmErr),
			)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.path(key)); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace blob %s: %w", key, err)
	}

	s.logger.Debug("blob saved",
		interfaces.String("backend", "file"),
		interfaces.String("key", key),
		interfaces.Int("bytes", len(data)),
	)
	return nil
}
