package useragent

import (
	"context"

	"github.com/dmitrymomot/uaparser/pkg/async"
)

// compileFamily compiles records on up to workers goroutines. Each worker owns
// a contiguous index range and the ranges are concatenated in order, so the
// result preserves record precedence. On failure the error of the lowest
// failing index is returned.
func compileFamily[R, T any](o *options, records []R, compile func(*options, int, R) (matcher[T], error)) ([]matcher[T], error) {
	ranges := chunks(len(records), o.concurrency)
	if len(ranges) == 0 {
		return nil, nil
	}

	futures := make([]*async.Future[[]matcher[T]], len(ranges))
	for i, r := range ranges {
		futures[i] = async.Async(context.Background(), r, func(_ context.Context, r [2]int) ([]matcher[T], error) {
			out := make([]matcher[T], 0, r[1]-r[0])
			for idx := r[0]; idx < r[1]; idx++ {
				m, err := compile(o, idx, records[idx])
				if err != nil {
					return nil, err
				}
				out = append(out, m)
			}
			return out, nil
		})
	}

	parts, err := async.WaitAll(futures...)
	if err != nil {
		return nil, err
	}

	matchers := make([]matcher[T], 0, len(records))
	for _, p := range parts {
		matchers = append(matchers, p...)
	}
	return matchers, nil
}

// chunks splits n items into at most parts contiguous [start, end) ranges.
func chunks(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	size := (n + parts - 1) / parts
	out := make([][2]int, 0, parts)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}
