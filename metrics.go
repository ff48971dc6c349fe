package bloomstamp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors updated by Saturator and
// Redeemer.
type Metrics struct {
	// Steps counts saturation steps (digest + insert).
	Steps prometheus.Counter
	// Saturations counts Saturate calls by result.
	Saturations *prometheus.CounterVec
	// Density observes the number of set bits of each saturated filter.
	Density prometheus.Histogram
	// Redemptions counts Redeem calls by result.
	Redemptions *prometheus.CounterVec
}

// NewMetrics creates collectors and registers them to reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Steps: f.NewCounter(prometheus.CounterOpts{
			Name: "bloomstamp_saturate_steps_total",
			Help: "The total number of saturation steps",
		}),
		Saturations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomstamp_saturations_total",
			Help: "The total number of saturate calls",
		}, []string{"result"}),
		Density: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloomstamp_saturated_ones",
			Help:    "Set bits of saturated filters",
			Buckets: prometheus.LinearBuckets(Threshold-K, 5, 7),
		}),
		Redemptions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloomstamp_redemptions_total",
			Help: "The total number of stamp redemptions",
		}, []string{"result"}),
	}
}

func (m *Metrics) step() {
	if m != nil {
		m.Steps.Inc()
	}
}

func (m *Metrics) saturated(result string, ones int) {
	if m == nil {
		return
	}
	m.Saturations.WithLabelValues(result).Inc()
	if result == resultOK {
		m.Density.Observe(float64(ones))
	}
}

func (m *Metrics) redeemed(result string) {
	if m != nil {
		m.Redemptions.WithLabelValues(result).Inc()
	}
}

const (
	resultOK      = "ok"
	resultError   = "error"
	resultInvalid = "invalid"
	resultSpent   = "spent"
)
