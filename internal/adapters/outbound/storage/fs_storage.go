package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/ports"
)

type fsStorage struct {
	mediaDir string
	thumbDir string
}

// NewFSStorage stores approved media on the local filesystem, the default
// backend for single-node deployments.
func NewFSStorage(mediaDir, thumbDir string) ports.Storage {
	storage := &fsStorage{
		mediaDir: mediaDir,
		thumbDir: thumbDir,
	}
	storage.createDirs()
	return storage
}

func (s *fsStorage) createDirs() {
	dirs := []string{s.mediaDir, s.thumbDir}
	for _, dir := range dirs {
		os.MkdirAll(dir, 0755)
	}
}

func (s *fsStorage) SaveMedia(ctx context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(s.mediaDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *fsStorage) SaveThumbnail(ctx context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(s.thumbDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *fsStorage) Delete(ctx context.Context, path string) error {
	return os.Remove(path)
}
