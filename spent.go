package bloomstamp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dgryski/go-metro"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const fingerprintSeed = 0x626c6f6f6d

// Fingerprint returns a 64-bit hash of the raw bit array of f.
func Fingerprint(f Filter) uint64 {
	return metro.Hash64(f.bits[:], fingerprintSeed)
}

// SpentSet records redeemed stamps. Stamps are told apart by Fingerprint.
type SpentSet interface {
	// MarkSpent marks f as spent. It returns false when f was already
	// spent.
	MarkSpent(ctx context.Context, f Filter) (bool, error)
}

// MemorySpent provides SpentSet interface with memory.
type MemorySpent struct {
	mu sync.Mutex
	m  map[uint64]struct{}
}

// NewMemorySpent creates an empty memory spent set.
func NewMemorySpent() *MemorySpent {
	return &MemorySpent{m: map[uint64]struct{}{}}
}

// MarkSpent marks f as spent.
func (ms *MemorySpent) MarkSpent(_ context.Context, f Filter) (bool, error) {
	fp := Fingerprint(f)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.m[fp]; ok {
		return false, nil
	}
	ms.m[fp] = struct{}{}
	return true, nil
}

// RedisSpent provides SpentSet interface with redis. Each spent stamp is a
// key prefix+fingerprint which expires after ttl (0: never).
type RedisSpent struct {
	c      redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisSpent creates a redis spent set.
func NewRedisSpent(uc redis.UniversalClient, prefix string, ttl time.Duration) *RedisSpent {
	return &RedisSpent{c: uc, prefix: prefix, ttl: ttl}
}

func (rs *RedisSpent) key(f Filter) string {
	return rs.prefix + strconv.FormatUint(Fingerprint(f), 16)
}

// MarkSpent marks f as spent.
func (rs *RedisSpent) MarkSpent(ctx context.Context, f Filter) (bool, error) {
	ok, err := rs.c.SetNX(ctx, rs.key(f), 1, rs.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX failed: %w", err)
	}
	return ok, nil
}

var (
	// ErrInvalidStamp is returned by Redeem for a filter which is not one
	// step below Threshold.
	ErrInvalidStamp = errors.New("bloomstamp: invalid stamp")
	// ErrStampSpent is returned by Redeem for a stamp redeemed before.
	ErrStampSpent = errors.New("bloomstamp: stamp already spent")
)

// Redeemer accepts each valid stamp once.
type Redeemer struct {
	s       *Saturator
	spent   SpentSet
	metrics *Metrics
}

// NewRedeemer creates a Redeemer. A nil spent uses a MemorySpent.
func NewRedeemer(s *Saturator, spent SpentSet) *Redeemer {
	if spent == nil {
		spent = NewMemorySpent()
	}
	return &Redeemer{s: s, spent: spent, metrics: s.metrics}
}

// Redeem verifies f and marks it spent.
func (r *Redeemer) Redeem(ctx context.Context, f Filter) error {
	ok, err := r.s.Verify(ctx, f)
	if err != nil {
		r.metrics.redeemed(resultError)
		return err
	}
	if !ok {
		r.metrics.redeemed(resultInvalid)
		return ErrInvalidStamp
	}
	fresh, err := r.spent.MarkSpent(ctx, f)
	if err != nil {
		r.metrics.redeemed(resultError)
		return err
	}
	if !fresh {
		r.metrics.redeemed(resultSpent)
		return ErrStampSpent
	}
	r.metrics.redeemed(resultOK)
	r.s.log.Debug("stamp redeemed", zap.String("fingerprint", strconv.FormatUint(Fingerprint(f), 16)))
	return nil
}
