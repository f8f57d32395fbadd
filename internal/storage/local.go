package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes objects under a directory on disk. Development
// stand-in for GCS; SignedGetURL just returns the file path.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return objectName, nil
}

func (s *LocalStore) SignedGetURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return filepath.Join(s.root, filepath.FromSlash(objectName)), nil
}
