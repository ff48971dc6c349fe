package bloomstamp

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore provides Store interface with redis. Each filter is stored as
// its raw bit array under prefix+name.
type RedisStore struct {
	c      redis.UniversalClient
	prefix string
}

// NewRedisStore creates a redis store.
func NewRedisStore(uc redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{c: uc, prefix: prefix}
}

// Save stores f under name.
func (rs *RedisStore) Save(ctx context.Context, name string, f Filter) error {
	err := rs.c.Set(ctx, rs.prefix+name, f.Bytes(), 0).Err()
	if err != nil {
		return fmt.Errorf("redis SET failed: name=%s: %w", name, err)
	}
	return nil
}

// Load returns the filter stored under name.
func (rs *RedisStore) Load(ctx context.Context, name string) (Filter, error) {
	b, err := rs.c.Get(ctx, rs.prefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Filter{}, ErrNotFound
		}
		return Filter{}, fmt.Errorf("redis GET failed: name=%s: %w", name, err)
	}
	return FromBytes(b)
}
