package useragent

import (
	"runtime"
	"time"
)

// MatchErrorHook observes regex engine failures during matching. The failing
// pattern is still treated as a miss.
type MatchErrorHook func(family Family, pattern string, err error)

// Option configures parser construction.
type Option func(*options)

type options struct {
	matchTimeout time.Duration
	concurrency  int
	onMatchError MatchErrorHook
}

func defaultOptions() *options {
	return &options{
		concurrency: runtime.NumCPU(),
	}
}

// WithMatchTimeout bounds the time a single pattern may spend on one input.
// A pattern that runs out of time counts as not matching.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.matchTimeout = d
		}
	}
}

// WithConcurrency sets how many workers compile the patterns of each family.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMatchErrorHook registers a callback for engine failures such as
// timeouts. The hook must be safe for concurrent use.
func WithMatchErrorHook(h MatchErrorHook) Option {
	return func(o *options) {
		o.onMatchError = h
	}
}
