package useragent

import "net/http"

// Middleware parses the User-Agent header of every request and stores the
// result in the request context.
func (p *Parser) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithContext(r.Context(), p.Parse(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
