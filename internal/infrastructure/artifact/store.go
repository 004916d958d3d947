// Package artifact abstracts where trained model artifacts are read from.
// The runtime engine loads artifacts exactly once at startup; a Source is
// never consulted again for the lifetime of the process.
package artifact

import (
	"context"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/urbansight/urbansight/internal/config"
	"github.com/urbansight/urbansight/internal/infrastructure/monitoring/logging"
	"github.com/urbansight/urbansight/pkg/errors"
)

// Source fetches a raw artifact payload by key.  Key semantics depend on the
// implementation: a filesystem path for FileSource, an object key for
// ObjectStoreSource.
type Source interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FileSource reads artifacts from local disk.
type FileSource struct{}

// NewFileSource returns a Source backed by the local filesystem.
func NewFileSource() FileSource { return FileSource{} }

// Fetch reads the file at key.
func (FileSource) Fetch(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactUnavailable, "failed to read artifact file").WithDetail(key)
	}
	return data, nil
}

// ObjectStoreSource reads artifacts from an S3-compatible bucket.
type ObjectStoreSource struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewObjectStoreSource connects to the configured object store.  Connection
// errors are returned immediately so the caller can fall back to degraded
// scoring mode at startup.
func NewObjectStoreSource(cfg config.ObjectStoreConfig, logger logging.Logger) (*ObjectStoreSource, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactUnavailable, "failed to create object store client")
	}
	return &ObjectStoreSource{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Fetch downloads the object at key from the configured bucket.
func (s *ObjectStoreSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactUnavailable, "failed to fetch artifact object").WithDetail(key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeArtifactUnavailable, "failed to read artifact object").WithDetail(key)
	}
	s.logger.Debug("artifact fetched from object store",
		logging.String("bucket", s.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(data)),
	)
	return data, nil
}

// ForConfig returns the Source selected by cfg.Model.Source.
func ForConfig(cfg *config.Config, logger logging.Logger) (Source, error) {
	if cfg.Model.Source == "s3" {
		return NewObjectStoreSource(cfg.ObjectStore, logger)
	}
	return NewFileSource(), nil
}
