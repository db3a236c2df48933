package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// DefaultHeaders are consulted in order before falling back to RemoteAddr.
var DefaultHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// Resolver extracts the client address from a request. Only list headers
// that a trusted proxy in front of the service overwrites; anything else can
// be forged by the caller.
type Resolver struct {
	headers []string
}

// NewResolver returns a Resolver trusting headers in order. With no headers
// only RemoteAddr is used.
func NewResolver(headers ...string) *Resolver {
	return &Resolver{headers: headers}
}

// IP returns the first valid address found, normalized, or "" if none is.
func (rs *Resolver) IP(r *http.Request) string {
	for _, h := range rs.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For carries a chain; the leftmost entry is the client
		for part := range strings.SplitSeq(v, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// Middleware stores the resolved address for FromContext.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), rs.IP(r))))
	})
}

func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.Trim(strings.TrimSpace(s), "[]"))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
