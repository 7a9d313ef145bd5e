package service

import "context"

// BinaryStore abstracts the object storage that holds uploaded analyzer
// binaries. Only opaque keys cross this boundary; the bucket layout is an
// infrastructure concern.
type BinaryStore interface {
	// Write stores content under key, overwriting any existing object.
	Write(ctx context.Context, key string, content []byte) error

	// Delete removes the object under key. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying bucket handle.
	Close() error
}
