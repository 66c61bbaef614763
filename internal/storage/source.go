package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"sensorprep/internal/config"
	"sensorprep/internal/errors"
)

// Scheme identifies a storage backend
type Scheme string

const (
	SchemeLocal Scheme = "file"
	SchemeGCS   Scheme = "gs"
	SchemeS3    Scheme = "s3"
)

// Location is a parsed source URI
type Location struct {
	Scheme Scheme
	Bucket string
	// Key is the object key for remote schemes, the file path for local ones
	Key string
}

// String renders the location back as a URI
func (l Location) String() string {
	if l.Scheme == SchemeLocal {
		return l.Key
	}
	return fmt.Sprintf("%s://%s/%s", l.Scheme, l.Bucket, l.Key)
}

// IsPrefix reports whether the location names a set of objects
func (l Location) IsPrefix() bool {
	return l.Scheme != SchemeLocal && (l.Key == "" || strings.HasSuffix(l.Key, "/"))
}

// ParseURI splits a source URI. Object keys may contain spaces.
func ParseURI(uri string) (Location, error) {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return Location{Scheme: SchemeLocal, Key: uri}, nil
	}

	switch Scheme(strings.ToLower(scheme)) {
	case SchemeLocal:
		return Location{Scheme: SchemeLocal, Key: rest}, nil
	case SchemeGCS, SchemeS3:
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, errors.NewAppValidationError("missing bucket in " + uri)
		}
		return Location{Scheme: Scheme(strings.ToLower(scheme)), Bucket: bucket, Key: key}, nil
	default:
		return Location{}, errors.NewAppValidationError(fmt.Sprintf("unsupported scheme %q in %s", scheme, uri))
	}
}

// Source reads objects from one backend
type Source interface {
	// Exists reports whether the object or prefix holds data
	Exists(ctx context.Context, loc Location) (bool, error)
	// Open returns a reader over one object
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
	// List expands a prefix into the CSV objects under it
	List(ctx context.Context, loc Location) ([]Location, error)
	Close() error
}

// Router dispatches URIs to lazily created backends
type Router struct {
	cfg    config.StorageConfig
	logger *slog.Logger

	mu      sync.Mutex
	sources map[Scheme]Source
	// factories build backends on first use; tests replace them
	factories map[Scheme]func(ctx context.Context) (Source, error)
}

// NewRouter creates a router for cfg
func NewRouter(cfg config.StorageConfig, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		cfg:     cfg,
		logger:  logger,
		sources: make(map[Scheme]Source),
	}
	r.factories = map[Scheme]func(ctx context.Context) (Source, error){
		SchemeLocal: func(context.Context) (Source, error) { return NewLocalSource(), nil },
		SchemeGCS:   func(ctx context.Context) (Source, error) { return NewGCSSource(ctx, cfg) },
		SchemeS3:    func(context.Context) (Source, error) { return NewS3Source(cfg) },
	}
	return r
}

// Register installs src for scheme, replacing the default backend
func (r *Router) Register(scheme Scheme, src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[scheme] = src
}

func (r *Router) source(ctx context.Context, scheme Scheme) (Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if src, ok := r.sources[scheme]; ok {
		return src, nil
	}
	factory, ok := r.factories[scheme]
	if !ok {
		return nil, errors.NewAppValidationError(fmt.Sprintf("unsupported scheme %q", scheme))
	}
	src, err := factory(ctx)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to create %s client", scheme), err)
	}
	r.logger.Debug("Storage client created", slog.String("scheme", string(scheme)))
	r.sources[scheme] = src
	return src, nil
}

// Exists reports whether uri names an existing object, directory or non-empty prefix
func (r *Router) Exists(ctx context.Context, uri string) (bool, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return false, err
	}
	src, err := r.source(ctx, loc.Scheme)
	if err != nil {
		return false, err
	}
	return src.Exists(ctx, loc)
}

// Expand returns the object URIs uri stands for: itself for a single object,
// the CSV objects beneath it for a prefix, directory or glob.
func (r *Router) Expand(ctx context.Context, uri string) ([]string, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	src, err := r.source(ctx, loc.Scheme)
	if err != nil {
		return nil, err
	}

	locs, err := src.List(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, errors.NewNotFoundError(uri)
	}

	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = l.String()
	}
	return out, nil
}

// Open returns a reader over the object at uri
func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	src, err := r.source(ctx, loc.Scheme)
	if err != nil {
		return nil, err
	}
	return src.Open(ctx, loc)
}

// Close releases every backend client that was created
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for scheme, src := range r.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = errors.NewStorageError(fmt.Sprintf("failed to close %s client", scheme), err)
		}
	}
	r.sources = make(map[Scheme]Source)
	return firstErr
}
