package useragent

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DecodePatterns parses a regexes.yaml document.
func DecodePatterns(b []byte) (Patterns, error) {
	var p Patterns
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Patterns{}, errors.Join(ErrDecodePatterns, err)
	}
	return p, nil
}

// NewFromBytes builds a parser from the contents of a regexes.yaml file, for
// example one compiled into the binary with go:embed.
func NewFromBytes(b []byte, opts ...Option) (*Parser, error) {
	p, err := DecodePatterns(b)
	if err != nil {
		return nil, err
	}
	return New(p, opts...)
}

// NewFromReader reads r to the end and builds a parser from it.
func NewFromReader(r io.Reader, opts ...Option) (*Parser, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrReadPatterns, err)
	}
	return NewFromBytes(b, opts...)
}

// NewFromFile builds a parser from the regexes.yaml file at path.
func NewFromFile(path string, opts ...Option) (*Parser, error) {
	// #nosec G304 - the pattern file path is operator supplied
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadPatterns, err)
	}
	return NewFromBytes(b, opts...)
}

// NewFromFS builds a parser from the named file of fsys.
func NewFromFS(fsys fs.FS, name string, opts ...Option) (*Parser, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Join(ErrReadPatterns, err)
	}
	return NewFromBytes(b, opts...)
}
