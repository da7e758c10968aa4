package storage

// Package storage defines the object storage abstraction used by the
// presentation pipeline. Assets are read from arbitrary buckets;
// rendered artifacts are written once to the configured output bucket.

import (
	"context"
	"io"
)

// Storage defines the interface for object storage operations.
// All backends (local, s3) must implement this interface.
type Storage interface {
	// PutObject uploads an artifact to the output bucket.
	// key: object key, e.g. "presentations/2026-01-15/{uuid}.pptx"
	// data: content reader
	// contentType: MIME type of the artifact
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves an object from the output bucket.
	// Returns a ReadCloser that must be closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// FetchFrom retrieves an object from an arbitrary bucket. The
	// asset resolver uses this for read-only source asset downloads.
	FetchFrom(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// ObjectExists checks if an object exists in the output bucket.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// GenerateURL creates a stable public URL for an uploaded artifact.
	GenerateURL(ctx context.Context, key string) (string, error)

	// Type returns the storage type identifier ("local" or "s3").
	Type() string
}
