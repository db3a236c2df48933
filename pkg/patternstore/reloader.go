package patternstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/uaparser/pkg/logger"
	"github.com/dmitrymomot/uaparser/pkg/metrics"
	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

// Reloader keeps a compiled parser in sync with a Source. Readers call
// Parser and always get a complete pattern set: a reload that fails to
// fetch or compile leaves the previous parser in place.
type Reloader struct {
	src        Source
	interval   time.Duration
	parserOpts []useragent.Option
	log        *slog.Logger
	onSwap     []func(*useragent.Parser)

	current atomic.Pointer[useragent.Parser]

	mu     sync.Mutex // serializes Reload
	digest [sha256.Size]byte
}

type ReloaderOption func(*Reloader)

// WithInterval enables periodic refresh in Start. Zero disables it.
func WithInterval(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		if d >= 0 {
			r.interval = d
		}
	}
}

// WithParserOptions is passed to every compilation.
func WithParserOptions(opts ...useragent.Option) ReloaderOption {
	return func(r *Reloader) { r.parserOpts = append(r.parserOpts, opts...) }
}

func WithLogger(l *slog.Logger) ReloaderOption {
	return func(r *Reloader) {
		if l != nil {
			r.log = l
		}
	}
}

// WithOnSwap registers a callback invoked after a new parser is published.
func WithOnSwap(fn func(*useragent.Parser)) ReloaderOption {
	return func(r *Reloader) {
		if fn != nil {
			r.onSwap = append(r.onSwap, fn)
		}
	}
}

func NewReloader(src Source, opts ...ReloaderOption) *Reloader {
	r := &Reloader{
		src: src,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("patternstore"), logger.Source(src.Name()))
	return r
}

// Parser returns the active parser or nil before the first successful load.
func (r *Reloader) Parser() *useragent.Parser {
	return r.current.Load()
}

// Ready returns ErrNoParser until a pattern set is loaded. It matches the
// readiness check signature of pkg/httpserver.
func (r *Reloader) Ready(context.Context) error {
	if r.current.Load() == nil {
		return ErrNoParser
	}
	return nil
}

// Reload fetches and compiles the source once. It reports whether a new
// parser was published; an unchanged document is not recompiled.
func (r *Reloader) Reload(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	b, err := r.src.Fetch(ctx)
	if errors.Is(err, ErrNotModified) && r.current.Load() != nil {
		metrics.PatternReloads.WithLabelValues(metrics.ReloadUnchanged).Inc()
		return false, nil
	}
	if err != nil {
		metrics.PatternReloads.WithLabelValues(metrics.ReloadFailure).Inc()
		return false, errors.Join(useragent.ErrReadPatterns, err)
	}

	sum := sha256.Sum256(b)
	if sum == r.digest && r.current.Load() != nil {
		metrics.PatternReloads.WithLabelValues(metrics.ReloadUnchanged).Inc()
		return false, nil
	}

	p, err := useragent.NewFromBytes(b, r.parserOpts...)
	if err != nil {
		metrics.PatternReloads.WithLabelValues(metrics.ReloadFailure).Inc()
		return false, err
	}

	r.current.Store(p)
	r.digest = sum
	metrics.PatternReloads.WithLabelValues(metrics.ReloadSuccess).Inc()

	attrs := make([]any, 0, len(useragent.Families)+1)
	for _, f := range useragent.Families {
		metrics.PatternsLoaded.WithLabelValues(f.String()).Set(float64(p.Len(f)))
		attrs = append(attrs, slog.Int(f.String(), p.Len(f)))
	}
	attrs = append(attrs, logger.Duration(time.Since(start)))
	r.log.InfoContext(ctx, "pattern set loaded", attrs...)

	for _, fn := range r.onSwap {
		fn(p)
	}
	return true, nil
}

// Start performs the initial load, which must succeed, and then refreshes
// every interval in the background until ctx is done. Refresh failures are
// logged and the previous parser stays active.
func (r *Reloader) Start(ctx context.Context) error {
	if _, err := r.Reload(ctx); err != nil {
		return err
	}
	if r.interval <= 0 {
		return nil
	}

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := r.Reload(ctx); err != nil && ctx.Err() == nil {
					r.log.ErrorContext(ctx, "pattern reload failed, keeping previous set", logger.Error(err))
				}
			}
		}
	}()
	return nil
}
