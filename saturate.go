package bloomstamp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Threshold is the number of set bits a saturated filter stays below.
// One more step applied to a saturated filter reaches it.
const Threshold = 1019

var (
	// ErrAlreadySaturated is returned by Saturate when the filter already
	// has Threshold or more set bits.
	ErrAlreadySaturated = errors.New("bloomstamp: filter already at threshold")
	// ErrStalled is returned when a step sets no new bit. The filter then
	// digests to the same value forever and never reaches Threshold.
	ErrStalled = errors.New("bloomstamp: saturation step made no progress")
	// ErrStepLimit is returned when the configured step limit is exceeded.
	ErrStepLimit = errors.New("bloomstamp: saturation step limit exceeded")
)

// Saturator drives filters toward Threshold by inserting digests of their
// own raw bytes.
type Saturator struct {
	d        Digester
	log      *zap.Logger
	metrics  *Metrics
	maxSteps int
}

// Option configures a Saturator.
type Option func(*Saturator)

// WithLogger sets a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Saturator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets collectors to update.
func WithMetrics(m *Metrics) Option {
	return func(s *Saturator) {
		s.metrics = m
	}
}

// WithMaxSteps bounds the number of steps a single Saturate call may take.
// Zero means no bound.
func WithMaxSteps(n int) Option {
	return func(s *Saturator) {
		s.maxSteps = n
	}
}

// NewSaturator creates a Saturator. A nil d uses SHA256.
func NewSaturator(d Digester, opts ...Option) *Saturator {
	if d == nil {
		d = SHA256
	}
	s := &Saturator{
		d:   d,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step digests the raw bytes of f and adds the digest to f.
func (s *Saturator) Step(ctx context.Context, f *Filter) error {
	sum, err := s.d.Digest(ctx, f.Bytes())
	if err != nil {
		return fmt.Errorf("digest failed: %w", err)
	}
	f.Add(sum[:])
	s.metrics.step()
	return nil
}

// stepper counts steps of one Saturate call against the limit.
type stepper struct {
	*Saturator
	n int
}

func (st *stepper) step(ctx context.Context, f *Filter) error {
	if st.maxSteps > 0 && st.n >= st.maxSteps {
		return fmt.Errorf("%w: %d steps", ErrStepLimit, st.n)
	}
	st.n++
	return st.Step(ctx, f)
}

// remainingSteps is the number of steps which cannot take a filter with
// ones set bits past Threshold-1, as one step sets at most K bits.
func remainingSteps(ones int) int {
	if ones >= Threshold-1 {
		return 0
	}
	return (Threshold - 1 - ones) / K
}

// Saturate returns a copy of f with the most set bits below Threshold
// reachable by repeated steps, so that exactly one more Step reaches
// Threshold. f itself is never modified. On error the returned filter is
// the last state reached.
func (s *Saturator) Saturate(ctx context.Context, f Filter) (Filter, error) {
	w := f.Clone()
	ones := w.CountOnes()
	if ones >= Threshold {
		s.metrics.saturated(resultError, ones)
		return w, ErrAlreadySaturated
	}
	st := &stepper{Saturator: s}
	for n := remainingSteps(ones); n >= 1; n = remainingSteps(ones) {
		for i := 0; i < n; i++ {
			prev := w
			err := st.step(ctx, &w)
			if err == nil && w == prev {
				err = ErrStalled
			}
			if err != nil {
				s.metrics.saturated(resultError, ones)
				return w, err
			}
		}
		ones = w.CountOnes()
		s.log.Debug("fast phase batch", zap.Int("steps", n), zap.Int("ones", ones))
	}
	r, err := st.slowStep(ctx, w)
	if err != nil {
		s.metrics.saturated(resultError, r.CountOnes())
		return r, err
	}
	s.log.Debug("saturated", zap.Int("steps", st.n), zap.Int("ones", r.CountOnes()))
	s.metrics.saturated(resultOK, r.CountOnes())
	return r, nil
}

// SlowStep steps a copy of f one digest at a time and returns the last
// filter before the step that reaches Threshold.
func (s *Saturator) SlowStep(ctx context.Context, f Filter) (Filter, error) {
	st := &stepper{Saturator: s}
	return st.slowStep(ctx, f)
}

func (st *stepper) slowStep(ctx context.Context, f Filter) (Filter, error) {
	curr := f
	for {
		next := curr.Clone()
		if err := st.step(ctx, &next); err != nil {
			return curr, err
		}
		if next.CountOnes() >= Threshold {
			return curr, nil
		}
		if next == curr {
			return curr, ErrStalled
		}
		curr = next
	}
}

// Verify checks that f is a saturated filter: below Threshold, and one
// Step away from it.
func (s *Saturator) Verify(ctx context.Context, f Filter) (bool, error) {
	if f.CountOnes() >= Threshold {
		return false, nil
	}
	next := f.Clone()
	if err := s.Step(ctx, &next); err != nil {
		return false, err
	}
	return next.CountOnes() >= Threshold, nil
}

// defaultSaturator is bound to sha256Digester rather than the SHA256
// variable, so its steps cannot fail.
var defaultSaturator = NewSaturator(sha256Digester{})

// Saturate saturates f with SHA256.
func Saturate(f Filter) (Filter, error) {
	return defaultSaturator.Saturate(context.Background(), f)
}

// SaturateStep applies one SHA256 step to f.
func SaturateStep(f *Filter) {
	// sha256Digester never fails.
	_ = defaultSaturator.Step(context.Background(), f)
}
