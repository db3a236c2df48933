// Package redis connects to Redis with github.com/redis/go-redis/v9 and
// exposes Storage, the shared second-level store of the classifier. Several
// API replicas pointed at the same database reuse each other's
// classifications instead of re-running the pattern engine.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err // wraps ErrFailedToParseRedisConnString or ErrRedisNotReady
//	}
//	store := redis.NewStorage(client, cfg.KeyPrefix)
//
// Storage methods take a context and wrap client failures with ErrStorage;
// a missing key is not an error. Healthcheck adapts a client to the readiness
// check of pkg/httpserver; Storage.Ping does the same for a Storage.
package redis
