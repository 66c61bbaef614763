package storage

import (
	"context"
	"io"
	"os"

	"sensorprep/internal/errors"
	"sensorprep/internal/files"
)

// LocalSource reads from the local file system
type LocalSource struct {
	discovery *files.Discovery
}

// NewLocalSource creates a local source rooted at the working directory
func NewLocalSource() *LocalSource {
	return &LocalSource{discovery: files.NewDiscovery("")}
}

// Exists implements Source
func (s *LocalSource) Exists(_ context.Context, loc Location) (bool, error) {
	if files.IsGlob(loc.Key) {
		matches, err := s.discovery.FindFilesByPattern(loc.Key)
		if err != nil {
			return false, errors.NewAppValidationError(err.Error())
		}
		return len(matches) > 0, nil
	}

	_, err := os.Stat(loc.Key)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.NewIOError("failed to stat input", err).WithContext("path", loc.Key)
	}
	return true, nil
}

// Open implements Source
func (s *LocalSource) Open(_ context.Context, loc Location) (io.ReadCloser, error) {
	f, err := os.Open(loc.Key)
	if err != nil {
		return nil, errors.NewIOError("failed to open input", err).WithContext("path", loc.Key)
	}
	return f, nil
}

// List implements Source. A plain file lists as itself.
func (s *LocalSource) List(_ context.Context, loc Location) ([]Location, error) {
	var found []files.FileInfo

	if files.IsGlob(loc.Key) {
		matches, err := s.discovery.FindFilesByPattern(loc.Key)
		if err != nil {
			return nil, errors.NewAppValidationError(err.Error())
		}
		found = matches
	} else {
		info, err := os.Stat(loc.Key)
		if err != nil {
			return nil, errors.NewIOError("failed to stat input", err).WithContext("path", loc.Key)
		}
		if !info.IsDir() {
			return []Location{loc}, nil
		}
		found, err = s.discovery.FindCSVFiles(loc.Key)
		if err != nil {
			return nil, errors.NewIOError("failed to list directory", err).WithContext("path", loc.Key)
		}
	}

	out := make([]Location, len(found))
	for i, f := range found {
		out[i] = Location{Scheme: SchemeLocal, Key: f.Path}
	}
	return out, nil
}

// Close implements Source
func (s *LocalSource) Close() error {
	return nil
}
