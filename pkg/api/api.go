package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uaparser/pkg/classifier"
	"github.com/dmitrymomot/uaparser/pkg/clientip"
	"github.com/dmitrymomot/uaparser/pkg/environment"
	"github.com/dmitrymomot/uaparser/pkg/httpserver"
	"github.com/dmitrymomot/uaparser/pkg/metrics"
	"github.com/dmitrymomot/uaparser/pkg/ratelimiter"
	"github.com/dmitrymomot/uaparser/pkg/requestid"
)

// DefaultMaxBatch bounds the number of strings in one batch request.
const DefaultMaxBatch = 1000

type options struct {
	log      *slog.Logger
	env      environment.Environment
	checks   []httpserver.Check
	maxBatch int
	maxBody  int64
	ips      *clientip.Resolver
	limiter  *ratelimiter.Limiter
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithEnvironment(env environment.Environment) Option {
	return func(o *options) { o.env = env }
}

// WithReadinessChecks adds dependencies reported by /health/ready.
func WithReadinessChecks(checks ...httpserver.Check) Option {
	return func(o *options) { o.checks = append(o.checks, checks...) }
}

// WithClientIP sets how caller addresses are resolved. By default only
// RemoteAddr is trusted.
func WithClientIP(rs *clientip.Resolver) Option {
	return func(o *options) {
		if rs != nil {
			o.ips = rs
		}
	}
}

// WithRateLimit limits /v1 requests per client IP.
func WithRateLimit(l *ratelimiter.Limiter) Option {
	return func(o *options) { o.limiter = l }
}

func WithMaxBatch(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBatch = n
		}
	}
}

// NewRouter builds the HTTP API around svc:
//
//	GET  /v1/parse?ua=...           combined result
//	POST /v1/parse                  batch of up to DefaultMaxBatch strings
//	GET  /v1/parse/{family}?ua=...  device, os or user_agent only
//	GET  /health/live, /health/ready, /metrics
//
// A missing ua parameter classifies the caller's own User-Agent header.
func NewRouter(svc *classifier.Service, opts ...Option) http.Handler {
	o := &options{
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		env:      environment.Development,
		maxBatch: DefaultMaxBatch,
		maxBody:  1 << 20,
		ips:      clientip.NewResolver(),
	}
	for _, opt := range opts {
		opt(o)
	}

	h := &handlers{svc: svc, log: o.log, maxBatch: o.maxBatch, maxBody: o.maxBody}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		o.ips.Middleware,
		environment.Middleware(o.env),
		h.accessLog,
	)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(o.log, o.checks...))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		if o.limiter != nil {
			r.Use(ratelimiter.Middleware(o.limiter, clientKey, rateLimited))
		}
		r.Use(h.callerClient)
		r.Get("/parse", h.parse)
		r.Post("/parse", h.parseBatch)
		r.Get("/parse/{family}", h.parseFamily)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	return r
}
