// Package ratelimiter implements a token bucket limiter with an in-memory
// store and net/http middleware.
//
//	store := ratelimiter.NewMemoryStore()
//	go store.Cleanup(ctx, 5*time.Minute)
//
//	l, err := ratelimiter.New(store, ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	r.Use(ratelimiter.Middleware(l, keyFunc, denyHandler))
//
// A bucket starts full and gains RefillRate tokens per whole RefillInterval,
// never exceeding Capacity. A request that cannot be covered is rejected
// without consuming tokens.
package ratelimiter
