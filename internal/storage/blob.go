package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// FileBlobStore keeps binary objects (background images, icon assets) on
// the filesystem under a data directory.
type FileBlobStore struct {
	dataDir string
	logger  *slog.Logger
}

// Ensure FileBlobStore implements BlobStore interface
var _ storage.BlobStore = (*FileBlobStore)(nil)

// NewFileBlobStore creates a blob store rooted at dataDir.
func NewFileBlobStore(dataDir string, logger *slog.Logger) *FileBlobStore {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileBlobStore{dataDir: dataDir, logger: logger}
}

// resolve maps a blob path to a file path, rejecting traversal outside the
// data directory.
func (f *FileBlobStore) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if clean == "." || clean == "" {
		return "", fmt.Errorf("empty blob path")
	}
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("blob path %q escapes data directory", path)
	}
	return filepath.Join(f.dataDir, clean), nil
}

func (f *FileBlobStore) Upload(ctx context.Context, path string, data []byte) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		f.logger.Error("Failed to write blob", "path", path, "error", err)
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return nil
}

// Download returns blob bytes, or nil when the blob does not exist.
func (f *FileBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	full, err := f.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", path, err)
	}
	return data, nil
}

func (f *FileBlobStore) Delete(ctx context.Context, path string) error {
	full, err := f.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}
