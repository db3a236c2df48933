package patternstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// Source supplies the raw regexes.yaml document.
type Source interface {
	// Fetch returns the current document. A source that can tell the
	// document did not change since the previous Fetch returns
	// ErrNotModified.
	Fetch(ctx context.Context) ([]byte, error)
	// Name identifies the source in logs, e.g. "file:regexes.yaml".
	Name() string
}

// FileSource reads pattern definitions from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// #nosec G304 - operator supplied path
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Join(ErrNotFound, err)
	}
	if err != nil {
		return nil, errors.Join(ErrFetch, err)
	}
	return b, nil
}

// BytesSource serves a fixed document, typically one embedded in the binary.
type BytesSource struct {
	Label string
	Data  []byte
}

func (s BytesSource) Name() string {
	if s.Label == "" {
		return "bytes"
	}
	return s.Label
}

func (s BytesSource) Fetch(context.Context) ([]byte, error) {
	return s.Data, nil
}
