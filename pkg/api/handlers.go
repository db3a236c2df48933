package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uaparser/pkg/classifier"
	"github.com/dmitrymomot/uaparser/pkg/clientip"
	"github.com/dmitrymomot/uaparser/pkg/logger"
	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

type handlers struct {
	svc      *classifier.Service
	log      *slog.Logger
	maxBatch int
	maxBody  int64
}

type batchRequest struct {
	UserAgents []string `json:"user_agents"`
}

type batchResponse struct {
	Results []useragent.Client `json:"results"`
}

// subject returns the ua query parameter or, when absent, the caller's own
// User-Agent header.
func subject(r *http.Request) string {
	if q := r.URL.Query(); q.Has("ua") {
		return q.Get("ua")
	}
	return r.UserAgent()
}

func (h *handlers) parse(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("ua") {
		if c, ok := useragent.FromContext(r.Context()); ok {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.svc.Classify(r.Context(), subject(r)))
}

func (h *handlers) parseBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return
		}
		writeErrorCause(w, r, http.StatusBadRequest, "invalid_request", "body must be {\"user_agents\": [...]}", err)
		return
	}
	if len(req.UserAgents) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "too_many_user_agents",
			fmt.Sprintf("at most %d user agents per request", h.maxBatch))
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Results: h.svc.ClassifyBatch(r.Context(), req.UserAgents)})
}

func (h *handlers) parseFamily(w http.ResponseWriter, r *http.Request) {
	f, ok := useragent.ParseFamily(chi.URLParam(r, "family"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_family", "family must be device, os or user_agent")
		return
	}

	ua := subject(r)
	switch f {
	case useragent.FamilyDevice:
		writeJSON(w, http.StatusOK, h.svc.Device(r.Context(), ua))
	case useragent.FamilyOS:
		writeJSON(w, http.StatusOK, h.svc.OS(r.Context(), ua))
	default:
		writeJSON(w, http.StatusOK, h.svc.UserAgent(r.Context(), ua))
	}
}

type callerKey struct{}

// callerRecord carries the caller's client from callerClient back out to
// accessLog, which wraps it from further up the chain.
type callerRecord struct {
	client useragent.Client
	ok     bool
}

// callerClient classifies the caller's own User-Agent through the cached
// service and stores it for useragent.FromContext. Only /v1 mounts it, after
// the rate limiter.
func (h *handlers) callerClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := h.svc.Classify(r.Context(), r.UserAgent())
		if rec, ok := r.Context().Value(callerKey{}).(*callerRecord); ok {
			rec.client, rec.ok = c, true
		}
		next.ServeHTTP(w, r.WithContext(useragent.WithContext(r.Context(), c)))
	})
}

func (h *handlers) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		rec := &callerRecord{}
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), callerKey{}, rec)))

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		}
		if rec.ok {
			attrs = append(attrs, slog.String("client", rec.client.String()))
		}
		h.log.InfoContext(r.Context(), "request handled", attrs...)
	})
}

func clientKey(r *http.Request) string {
	return "ip:" + clientip.FromContext(r.Context())
}

func rateLimited(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
}
