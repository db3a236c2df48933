// Package api exposes a classifier.Service over HTTP.
//
// NewRouter returns a chi router with the parse endpoints under /v1, liveness
// and readiness checks under /health and Prometheus metrics at /metrics.
// Every request passes through request ID, client IP, environment and
// access-log middleware. WithRateLimit adds a per-IP token bucket in front of
// /v1; requests it admits then have the caller's own User-Agent classified
// for useragent.FromContext. Errors are written as
//
//	{"error": {"code": "...", "message": "..."}}
package api
