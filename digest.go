package bloomstamp

import (
	"context"
	"crypto/sha256"
)

// DigestSize is the width of a digest inserted by a saturation step.
const DigestSize = sha256.Size

// Digester defines the cryptographic hash used for saturation.
type Digester interface {
	// Digest computes a 256-bit digest of data.
	Digest(ctx context.Context, data []byte) ([DigestSize]byte, error)
}

// DigesterFunc adapts a function to Digester.
type DigesterFunc func(ctx context.Context, data []byte) ([DigestSize]byte, error)

// Digest calls fn(ctx, data).
func (fn DigesterFunc) Digest(ctx context.Context, data []byte) ([DigestSize]byte, error) {
	return fn(ctx, data)
}

type sha256Digester struct{}

func (sha256Digester) Digest(_ context.Context, data []byte) ([DigestSize]byte, error) {
	return sha256.Sum256(data), nil
}

// SHA256 is the default Digester. It never fails.
var SHA256 Digester = sha256Digester{}

// DigestResult is the outcome of an asynchronous digest computation.
type DigestResult struct {
	Sum [DigestSize]byte
	Err error
}

// AsyncDigester adapts a provider which delivers its digest on a channel,
// such as a hashing primitive owned by another goroutine or process. Each
// Digest call starts one computation and waits for its result or for ctx
// to be done.
//
// The channel returned by start must be buffered (capacity >= 1): when ctx
// is done first nobody receives the result, and a send on an unbuffered
// channel would block its producer forever.
func AsyncDigester(start func(data []byte) <-chan DigestResult) Digester {
	return DigesterFunc(func(ctx context.Context, data []byte) ([DigestSize]byte, error) {
		select {
		case r := <-start(data):
			return r.Sum, r.Err
		case <-ctx.Done():
			return [DigestSize]byte{}, ctx.Err()
		}
	})
}
