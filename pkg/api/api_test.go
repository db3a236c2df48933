package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uaparser/pkg/api"
	"github.com/dmitrymomot/uaparser/pkg/classifier"
	"github.com/dmitrymomot/uaparser/pkg/clientip"
	"github.com/dmitrymomot/uaparser/pkg/environment"
	"github.com/dmitrymomot/uaparser/pkg/httpserver"
	"github.com/dmitrymomot/uaparser/pkg/ratelimiter"
	"github.com/dmitrymomot/uaparser/pkg/requestid"
	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	safariMobileUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1"
)

func newRouter(t *testing.T, opts ...api.Option) http.Handler {
	t.Helper()
	p, err := useragent.NewFromFile("../useragent/testdata/regexes.yaml")
	require.NoError(t, err)
	return api.NewRouter(classifier.New(classifier.Static(p)), opts...)
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Error api.ErrorDetail `json:"error"`
}

func TestParse_QueryParameter(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/parse?ua="+url.QueryEscape(safariMobileUA), nil)
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	c := decode[useragent.Client](t, rec)
	assert.Equal(t, useragent.Device{Family: "iPhone", Brand: "Apple", Model: "iPhone"}, c.Device)
	assert.Equal(t, useragent.OS{Family: "iOS", Major: "14", Minor: "4"}, c.OS)
	assert.Equal(t, "Safari", c.UserAgent.Family)
}

func TestParse_FallsBackToCallerHeader(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)
	req.Header.Set("User-Agent", chromeDesktopUA)
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[useragent.Client](t, rec)
	assert.Equal(t, useragent.UserAgent{Family: "Chrome", Major: "91", Minor: "0", Patch: "4472"}, c.UserAgent)
	assert.Equal(t, useragent.OS{Family: "Windows", Major: "10"}, c.OS)
	assert.True(t, c.Device.IsOther())
}

func TestParse_EmptyParameterIsNotFallback(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/parse?ua=", nil)
	req.Header.Set("User-Agent", chromeDesktopUA)
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	c := decode[useragent.Client](t, rec)
	assert.Equal(t, useragent.DefaultUserAgent(), c.UserAgent)
	assert.Equal(t, useragent.DefaultOS(), c.OS)
}

func TestParseBatch(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	body := `{"user_agents": [` + jsonString(chromeDesktopUA) + `, "", ` + jsonString(safariMobileUA) + `]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(body))
	rec := do(t, h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Results []useragent.Client `json:"results"`
	}](t, rec)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "Chrome", resp.Results[0].UserAgent.Family)
	assert.Equal(t, "Other", resp.Results[1].UserAgent.Family)
	assert.Equal(t, "iOS", resp.Results[2].OS.Family)
}

func TestParseBatch_Errors(t *testing.T) {
	t.Parallel()
	h := newRouter(t, api.WithMaxBatch(2))

	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid json", `{"user_agents":`, "invalid_request"},
		{"wrong type", `{"user_agents": "Chrome"}`, "invalid_request"},
		{"too many", `{"user_agents": ["a", "b", "c"]}`, "too_many_user_agents"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(tc.body))
			rec := do(t, h, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, decode[errorBody](t, rec).Error.Code)
		})
	}
}

func TestParseBatch_DetailsHiddenInProduction(t *testing.T) {
	t.Parallel()
	body := `{"user_agents": "Chrome"}`

	rec := do(t, newRouter(t), httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error.Details, "cannot unmarshal")

	prod := newRouter(t, api.WithEnvironment(environment.Production))
	rec = do(t, prod, httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, decode[errorBody](t, rec).Error.Details)
}

func TestParseBatch_BodyTooLarge(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	body := `{"user_agents": ["` + strings.Repeat("a", 2<<20) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewBufferString(body))
	rec := do(t, h, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decode[errorBody](t, rec).Error.Code)
}

func TestParseFamily(t *testing.T) {
	t.Parallel()
	h := newRouter(t)
	q := "?ua=" + url.QueryEscape(safariMobileUA)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse/device"+q, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, useragent.Device{Family: "iPhone", Brand: "Apple", Model: "iPhone"}, decode[useragent.Device](t, rec))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse/os"+q, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, useragent.OS{Family: "iOS", Major: "14", Minor: "4"}, decode[useragent.OS](t, rec))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse/user_agent"+q, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, useragent.UserAgent{Family: "Safari", Major: "14", Minor: "0"}, decode[useragent.UserAgent](t, rec))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse/browser"+q, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_family", decode[errorBody](t, rec).Error.Code)
}

func TestRouting(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, rec).Error.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodDelete, "/v1/parse", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", decode[errorBody](t, rec).Error.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/parse?ua=x", nil)
	req.Header.Set(requestid.Header, "abc-123")
	rec := do(t, h, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestid.Header))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse?ua=x", nil))
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	healthy := newRouter(t, api.WithReadinessChecks(httpserver.Check{
		Name: "patterns",
		Func: func(context.Context) error { return nil },
	}))
	rec := do(t, healthy, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())

	rec = do(t, healthy, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"patterns":"ok"}}`, rec.Body.String())

	failing := newRouter(t, api.WithReadinessChecks(httpserver.Check{
		Name: "redis",
		Func: func(context.Context) error { return errors.New("connection refused") },
	}))
	rec = do(t, failing, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready","checks":{"redis":"connection refused"}}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	h := newRouter(t)

	_ = do(t, h, httptest.NewRequest(http.MethodGet, "/v1/parse?ua=Googlebot", nil))
	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "uaparser_classifications_total")
}

func TestRateLimitPerClientIP(t *testing.T) {
	t.Parallel()

	l, err := ratelimiter.New(ratelimiter.NewMemoryStore(),
		ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)
	h := newRouter(t,
		api.WithRateLimit(l),
		api.WithClientIP(clientip.NewResolver("X-Real-IP")),
	)

	req := func(ip, path string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("X-Real-IP", ip)
		return r
	}

	assert.Equal(t, http.StatusOK, do(t, h, req("192.0.2.1", "/v1/parse?ua=x")).Code)

	rec := do(t, h, req("192.0.2.1", "/v1/parse?ua=x"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", decode[errorBody](t, rec).Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(t, h, req("192.0.2.2", "/v1/parse?ua=x")).Code)
	assert.Equal(t, http.StatusOK, do(t, h, req("192.0.2.1", "/health/live")).Code)
}

// countingStore is an always-missing classifier.Store that counts lookups.
type countingStore struct {
	gets atomic.Int64
}

func (s *countingStore) Get(context.Context, string) ([]byte, bool, error) {
	s.gets.Add(1)
	return nil, false, nil
}

func (s *countingStore) Set(context.Context, string, []byte, time.Duration) error { return nil }

func TestCallerClassifiedOnlyForAdmittedRequests(t *testing.T) {
	t.Parallel()

	p, err := useragent.NewFromFile("../useragent/testdata/regexes.yaml")
	require.NoError(t, err)
	st := &countingStore{}
	svc := classifier.New(classifier.Static(p), classifier.WithStore(st, time.Minute))

	l, err := ratelimiter.New(ratelimiter.NewMemoryStore(),
		ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	var logs bytes.Buffer
	h := api.NewRouter(svc,
		api.WithRateLimit(l),
		api.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
	)

	req := func(path, ua string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.Header.Set("User-Agent", ua)
		return r
	}

	assert.Equal(t, http.StatusOK, do(t, h, req("/health/live", "curl/8.4.0")).Code)
	assert.Equal(t, http.StatusOK, do(t, h, req("/metrics", "Prometheus/2.45.0")).Code)
	assert.Zero(t, st.gets.Load())
	assert.NotContains(t, logs.String(), `"client"`)

	rec := do(t, h, req("/v1/parse", chromeDesktopUA))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Chrome", decode[useragent.Client](t, rec).UserAgent.Family)
	assert.Equal(t, int64(1), st.gets.Load())
	assert.Contains(t, logs.String(), `"client":"Chrome 91.0.4472`)

	rec = do(t, h, req("/v1/parse?ua=x", safariMobileUA))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, int64(1), st.gets.Load())
}

func jsonString(s string) string {
	return fmt.Sprintf("%q", s)
}
