package storage

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"sensorprep/internal/config"
	"sensorprep/internal/errors"
	"sensorprep/internal/files"
)

const (
	gcsMaxRetryDuration = 30 * time.Second
	gcsRetryMultiplier  = 2.0
)

// GCSSource reads objects from Google Cloud Storage
type GCSSource struct {
	client *storage.Client
}

// NewGCSSource creates a GCS client from cfg
func NewGCSSource(ctx context.Context, cfg config.StorageConfig) (*GCSSource, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}
	if cfg.GCSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.GCSEndpoint))
	}
	if cfg.Anonymous {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client.SetRetry(
		storage.WithBackoff(gax.Backoff{
			Max:        gcsMaxRetryDuration,
			Multiplier: gcsRetryMultiplier,
		}),
		storage.WithPolicy(storage.RetryIdempotent),
	)
	return &GCSSource{client: client}, nil
}

// Exists implements Source
func (s *GCSSource) Exists(ctx context.Context, loc Location) (bool, error) {
	if loc.IsPrefix() {
		it := s.client.Bucket(loc.Bucket).Objects(ctx, &storage.Query{Prefix: loc.Key})
		_, err := it.Next()
		if err == iterator.Done {
			return false, nil
		}
		if err != nil {
			return false, errors.NewStorageError("failed to list objects", err).WithContext("uri", loc.String())
		}
		return true, nil
	}

	_, err := s.client.Bucket(loc.Bucket).Object(loc.Key).Attrs(ctx)
	if stderrors.Is(err, storage.ErrObjectNotExist) || stderrors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStorageError("failed to stat object", err).WithContext("uri", loc.String())
	}
	return true, nil
}

// Open implements Source
func (s *GCSSource) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(loc.Bucket).Object(loc.Key).NewReader(ctx)
	if err != nil {
		return nil, errors.NewStorageError("failed to open object", err).WithContext("uri", loc.String())
	}
	return rc, nil
}

// List implements Source
func (s *GCSSource) List(ctx context.Context, loc Location) ([]Location, error) {
	if !loc.IsPrefix() {
		return []Location{loc}, nil
	}

	var out []Location
	it := s.client.Bucket(loc.Bucket).Objects(ctx, &storage.Query{Prefix: loc.Key})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.NewStorageError("failed to list objects", err).WithContext("uri", loc.String())
		}
		// only direct children
		if strings.Contains(strings.TrimPrefix(attrs.Name, loc.Key), "/") || !files.IsCSV(attrs.Name) {
			continue
		}
		out = append(out, Location{Scheme: SchemeGCS, Bucket: loc.Bucket, Key: attrs.Name})
	}
	return out, nil
}

// Close implements Source
func (s *GCSSource) Close() error {
	return s.client.Close()
}
