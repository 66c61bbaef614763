package app

import (
	"context"
	"io"

	"sensorprep/internal/dataset"
	"sensorprep/internal/storage"
)

// inputReader is a dataset reader that owns the underlying stream
type inputReader struct {
	*dataset.Reader
	rc io.Closer
}

func (r *inputReader) Close() error {
	return r.rc.Close()
}

// openInput opens uri for streaming. Local inputs are validated first,
// including the presence of required columns; remote ones go through the
// storage router.
func (a *Application) openInput(ctx context.Context, router *storage.Router, uri string, required ...string) (*inputReader, error) {
	loc, err := storage.ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if loc.Scheme == storage.SchemeLocal {
		if err := a.Validator.ValidateCSVFile(loc.Key, required...); err != nil {
			return nil, err
		}
	}

	rc, err := router.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	r, err := dataset.NewReader(rc, uri)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &inputReader{Reader: r, rc: rc}, nil
}

func (a *Application) newRouter() *storage.Router {
	return storage.NewRouter(a.Config.Storage, a.Logger)
}
