// Package storage implements the analyzer binary store on top of the
// gocloud.dev blob portability layer, so local directories and GCS buckets
// are interchangeable via the bucket URL.
package storage

import (
	"context"
	"log/slog"

	"classroom/config"
	"classroom/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Registered bucket schemes: file:// for development, gs:// for production.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
)

// blobBinaryStore implements service.BinaryStore backed by a blob bucket.
type blobBinaryStore struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// Params holds dependencies for the binary store, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBinaryStore opens the analyzer bucket named by the configured URL.
func NewBinaryStore(params Params) (service.BinaryStore, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		return nil, errors.New("storage bucket URL is required")
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", cfg.BucketURL)
	}

	params.Logger.Info("Binary store initialized",
		slog.String("bucket_url", cfg.BucketURL),
	)

	store := &blobBinaryStore{
		bucket: bucket,
		logger: params.Logger,
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// Write stores content under key, overwriting any existing object.
func (s *blobBinaryStore) Write(ctx context.Context, key string, content []byte) error {
	if err := s.bucket.WriteAll(ctx, key, content, nil); err != nil {
		return errors.Wrapf(err, "failed to write object %s", key)
	}

	s.logger.Debug("Binary stored",
		slog.String("key", key),
		slog.Int("size", len(content)),
	)

	return nil
}

// Delete removes the object under key. Deleting a missing object is not an error.
func (s *blobBinaryStore) Delete(ctx context.Context, key string) error {
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "failed to delete object %s", key)
	}

	return nil
}

// Close releases the underlying bucket handle.
func (s *blobBinaryStore) Close() error {
	return errors.WithStack(s.bucket.Close())
}

// Module provides the storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewBinaryStore),
)
