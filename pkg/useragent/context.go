package useragent

import "context"

type clientContextKey struct{}

// WithContext stores a parsed client in ctx.
func WithContext(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, c)
}

// FromContext returns the client stored by WithContext or Middleware.
func FromContext(ctx context.Context) (Client, bool) {
	if ctx == nil {
		return Client{}, false
	}
	c, ok := ctx.Value(clientContextKey{}).(Client)
	return c, ok
}
