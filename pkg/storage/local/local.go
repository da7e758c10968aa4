// Package local implements the local filesystem storage adapter used
// for development and tests. Buckets map to subdirectories.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Storage implements the storage.Storage interface using the local filesystem.
type Storage struct {
	basePath string
	bucket   string
}

// New creates a new local storage adapter.
// basePath is the root directory; bucket names the output bucket
// subdirectory for artifacts.
func New(basePath, bucket string) (*Storage, error) {
	if basePath == "" {
		basePath = "data/objects"
	}
	if bucket == "" {
		bucket = "presentation-staging"
	}

	if err := os.MkdirAll(filepath.Join(basePath, bucket), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &Storage{basePath: basePath, bucket: bucket}, nil
}

// PutObject writes an artifact to the output bucket directory.
func (s *Storage) PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	fullPath := s.objectPath(s.bucket, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// GetObject reads an object from the output bucket directory.
func (s *Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.FetchFrom(ctx, s.bucket, key)
}

// FetchFrom reads an object from an arbitrary bucket directory.
func (s *Storage) FetchFrom(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	fullPath := s.objectPath(bucket, key)

	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s/%s", bucket, key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// ObjectExists checks if an object exists in the output bucket directory.
func (s *Storage) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.objectPath(s.bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return true, nil
}

// GenerateURL returns the API path for downloading the artifact.
func (s *Storage) GenerateURL(ctx context.Context, key string) (string, error) {
	return fmt.Sprintf("/api/v1/artifacts/%s", key), nil
}

// Type returns "local" as the storage type identifier.
func (s *Storage) Type() string {
	return "local"
}

// BasePath returns the base path of the storage.
func (s *Storage) BasePath() string {
	return s.basePath
}

func (s *Storage) objectPath(bucket, key string) string {
	return filepath.Join(s.basePath, bucket, filepath.FromSlash(key))
}
