package patternstore

import "errors"

var (
	ErrNotFound      = errors.New("pattern definitions not found")
	ErrAccessDenied  = errors.New("access to pattern definitions denied")
	ErrNotModified   = errors.New("pattern definitions not modified")
	ErrFetch         = errors.New("failed to fetch pattern definitions")
	ErrInvalidConfig = errors.New("invalid pattern source configuration")
	ErrNoParser      = errors.New("no pattern set loaded")
)
