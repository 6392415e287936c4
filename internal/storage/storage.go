// Package storage persists uploaded files on local disk or S3-compatible
// object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"assistgen-gateway/internal/config"
)

// Store is a handle to an upload location. Save returns the stable path the
// file can later be opened under; callers keep it in the document registry.
type Store interface {
	// Save writes r under the given unique name. size is the expected
	// length taken from the upload headers.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)

	// Open returns the stored file for reading.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the stored file.
	Delete(ctx context.Context, path string) error
}

// NewFromConfig selects the configured storage backend.
func NewFromConfig(ctx context.Context, cfg *config.StorageConfig, logger zerolog.Logger) (Store, error) {
	if cfg.Backend == "s3" {
		return NewS3Store(ctx, &cfg.S3, logger)
	}
	return NewDiskStore(cfg.UploadDir)
}

// DiskStore keeps uploads in a single local directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: abs}, nil
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	dst := filepath.Join(s.dir, name)
	if err := s.checkPath(dst); err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	// A failed copy leaves a partial file behind; the name is unique so it
	// can never be served as a different upload.
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return dst, nil
}

func (s *DiskStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *DiskStore) Delete(ctx context.Context, path string) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// checkPath rejects paths that resolve outside the upload directory.
func (s *DiskStore) checkPath(path string) error {
	if !strings.HasPrefix(filepath.Clean(path), s.dir+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the upload dir", path)
	}
	return nil
}
