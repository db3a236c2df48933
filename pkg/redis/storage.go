package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a namespaced byte store on top of a Redis client. Every key is
// prefixed so the classifier can share a database with other services.
type Storage struct {
	db     redis.UniversalClient
	prefix string
}

func NewStorage(client redis.UniversalClient, prefix string) *Storage {
	return &Storage{db: client, prefix: prefix}
}

// Get returns the stored value. A missing key is reported as ok == false
// with a nil error.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Join(ErrStorage, err)
	}
	return val, true, nil
}

// Set stores val under key. A zero ttl keeps the value until deleted.
func (s *Storage) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	if err := s.db.Set(ctx, s.prefix+key, val, ttl).Err(); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// Ping checks the connection; it matches httpserver.Check.Func.
func (s *Storage) Ping(ctx context.Context) error {
	return Healthcheck(s.db)(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}
