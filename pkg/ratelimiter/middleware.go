package ratelimiter

import (
	"net/http"
	"strconv"
)

// KeyFunc picks the bucket for a request, for example the client IP.
type KeyFunc func(r *http.Request) string

// Middleware takes one token per request and sets the X-RateLimit-* headers.
// Rejected requests get Retry-After and are passed to deny. Store errors let
// the request through.
func Middleware(l *Limiter, key KeyFunc, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), key(r), 1)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(max(1, int(res.RetryAfter().Seconds()))))
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
