package bloomstamp

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// Redis provides a filter which keeps its bit array in a redis string, so
// that several processes can share it. "GET name" returns the raw bit
// array in the same layout as Filter.Bytes.
type Redis struct {
	c redis.UniversalClient
	n string
}

// NewRedis creates a new Redis filter stored at key name.
func NewRedis(uc redis.UniversalClient, name string) *Redis {
	return &Redis{
		c: uc,
		n: name,
	}
}

// redisOffset converts a filter bit index to a redis bit offset. Redis
// numbers bits from the most significant bit of each byte.
func redisOffset(x uint32) int64 {
	return int64(x&^7 | (7 - x&7))
}

// Add puts a byte array to the filter.
func (rf *Redis) Add(ctx context.Context, d []byte) error {
	args := make([]interface{}, 0, 4*K)
	for _, x := range Indexes(d) {
		args = append(args, "SET", "u1", redisOffset(x%Bits), 1)
	}
	_, err := rf.c.BitField(ctx, rf.n, args...).Result()
	if err != nil {
		return err
	}
	return nil
}

// Has checks that a byte array is possibly in the filter.
func (rf *Redis) Has(ctx context.Context, d []byte) (bool, error) {
	// using "BITFIELD GET ... GET ..." obtain all bits by a command
	args := make([]interface{}, 0, 3*K)
	for _, x := range Indexes(d) {
		args = append(args, "GET", "u1", redisOffset(x%Bits))
	}
	r, err := rf.c.BitField(ctx, rf.n, args...).Result()
	if err != nil {
		return false, err
	}
	for _, v := range r {
		if v == 0 {
			return false, nil
		}
	}
	return true, nil
}

// CountOnes returns the number of set bits.
func (rf *Redis) CountOnes(ctx context.Context) (int, error) {
	n, err := rf.c.BitCount(ctx, rf.n, nil).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Snapshot loads the current bits as a Filter. A missing key is an empty
// filter.
func (rf *Redis) Snapshot(ctx context.Context) (Filter, error) {
	b, err := rf.c.Get(ctx, rf.n).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return Filter{}, err
	}
	return FromBytes(b)
}

// Restore replaces the bits with those of f.
func (rf *Redis) Restore(ctx context.Context, f Filter) error {
	return rf.c.Set(ctx, rf.n, f.Bytes(), 0).Err()
}

// Drop deletes the filter.
func (rf *Redis) Drop(ctx context.Context) error {
	return rf.c.Del(ctx, rf.n).Err()
}
