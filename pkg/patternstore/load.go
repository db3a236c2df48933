package patternstore

import (
	"context"
	"errors"

	"github.com/dmitrymomot/uaparser/pkg/useragent"
)

// Load fetches the document from src and compiles it. Fetch failures match
// both useragent.ErrReadPatterns and the patternstore sentinel.
func Load(ctx context.Context, src Source, opts ...useragent.Option) (*useragent.Parser, error) {
	b, err := src.Fetch(ctx)
	if err != nil {
		return nil, errors.Join(useragent.ErrReadPatterns, err)
	}
	return useragent.NewFromBytes(b, opts...)
}
