package useragent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{"full os", useragent.OS{Family: "Mac OS X", Major: "10", Minor: "15", Patch: "7", PatchMinor: "1"}.Version(), "10.15.7.1"},
		{"major only", useragent.OS{Family: "Windows", Major: "10"}.Version(), "10"},
		{"gap stops join", useragent.OS{Family: "X", Major: "10", Patch: "3"}.Version(), "10"},
		{"no version", useragent.DefaultOS().Version(), ""},
		{"user agent", useragent.UserAgent{Family: "Chrome", Major: "91", Minor: "0", Patch: "4472"}.Version(), "91.0.4472"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.version)
		})
	}
}

func TestClient_String(t *testing.T) {
	t.Parallel()

	c := useragent.Client{
		Device:    useragent.DefaultDevice(),
		OS:        useragent.OS{Family: "Windows", Major: "10"},
		UserAgent: useragent.UserAgent{Family: "Chrome", Major: "91", Minor: "0", Patch: "4472"},
	}
	assert.Equal(t, "Chrome 91.0.4472 / Windows 10 / Other", c.String())

	empty := useragent.Client{
		Device:    useragent.DefaultDevice(),
		OS:        useragent.DefaultOS(),
		UserAgent: useragent.DefaultUserAgent(),
	}
	assert.Equal(t, "Other / Other / Other", empty.String())
}

func TestClient_JSON(t *testing.T) {
	t.Parallel()

	c := useragent.Client{
		Device:    useragent.Device{Family: "iPhone", Brand: "Apple", Model: "iPhone"},
		OS:        useragent.OS{Family: "iOS", Major: "14", Minor: "4"},
		UserAgent: useragent.DefaultUserAgent(),
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"device": {"family": "iPhone", "brand": "Apple", "model": "iPhone"},
		"os": {"family": "iOS", "major": "14", "minor": "4"},
		"user_agent": {"family": "Other"}
	}`, string(b))
}

func TestFamily(t *testing.T) {
	t.Parallel()

	for _, f := range useragent.Families {
		got, ok := useragent.ParseFamily(f.String())
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}

	_, ok := useragent.ParseFamily("browser")
	assert.False(t, ok)
	assert.Equal(t, "unknown", useragent.Family(42).String())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	p := newTestParser(t)

	var (
		got   useragent.Client
		found bool
	)
	handler := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = useragent.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", safariMobileUA)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, found)
	assert.Equal(t, "Safari", got.UserAgent.Family)
	assert.Equal(t, "iOS", got.OS.Family)
	assert.Equal(t, "Apple", got.Device.Brand)
}

func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	_, ok := useragent.FromContext(context.Background())
	assert.False(t, ok)

	ctx := useragent.WithContext(context.Background(), useragent.Client{Device: useragent.DefaultDevice()})
	c, ok := useragent.FromContext(ctx)
	assert.True(t, ok)
	assert.True(t, c.Device.IsOther())
}
