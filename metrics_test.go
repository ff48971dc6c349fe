package bloomstamp

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := NewSaturator(SHA256, WithMetrics(m))

	stamp, err := s.Saturate(ctx, New())
	if err != nil {
		t.Fatal(err)
	}
	if v := testutil.ToFloat64(m.Steps); v != 46 {
		t.Errorf("unexpected steps: want=46 got=%v", v)
	}
	if v := testutil.ToFloat64(m.Saturations.WithLabelValues(resultOK)); v != 1 {
		t.Errorf("unexpected saturations: want=1 got=%v", v)
	}

	r := NewRedeemer(s, nil)
	if err := r.Redeem(ctx, stamp); err != nil {
		t.Fatal(err)
	}
	if err := r.Redeem(ctx, stamp); err != ErrStampSpent {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := testutil.ToFloat64(m.Redemptions.WithLabelValues(resultOK)); v != 1 {
		t.Errorf("unexpected ok redemptions: %v", v)
	}
	if v := testutil.ToFloat64(m.Redemptions.WithLabelValues(resultSpent)); v != 1 {
		t.Errorf("unexpected spent redemptions: %v", v)
	}

	n, err := testutil.GatherAndCount(reg, "bloomstamp_saturated_ones")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("density histogram should be registered: %d", n)
	}
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	m.step()
	m.saturated(resultOK, 1)
	m.redeemed(resultOK)
}
