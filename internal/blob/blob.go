// Package blob is the object store used to stage the dataset and persist
// the serverless summary: put and get by key inside a single bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("blob not found")

// Store is a put/get-by-key object store
type Store interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	URL(key string) string
}

// DirStore keeps blobs as files under Root/Bucket. Used offline and in tests.
type DirStore struct {
	Root   string
	Bucket string
}

// NewDirStore creates a filesystem-backed store
func NewDirStore(root, bucket string) *DirStore {
	return &DirStore{Root: root, Bucket: bucket}
}

// EnsureBucket creates the bucket directory
func (s *DirStore) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(filepath.Join(s.Root, s.Bucket), 0755)
}

// Put writes a blob, replacing any previous content
func (s *DirStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return os.Rename(tmp, path)
}

// Get reads a blob
func (s *DirStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, s.Bucket, key)
	}
	return data, err
}

// URL returns a file URL for the blob
func (s *DirStore) URL(key string) string {
	abs, err := filepath.Abs(filepath.Join(s.Root, s.Bucket, key))
	if err != nil {
		abs = filepath.Join(s.Root, s.Bucket, key)
	}
	return "file://" + filepath.ToSlash(abs)
}

func (s *DirStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(s.Root, s.Bucket, clean), nil
}
