package refresh

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reservekit",
				Subsystem: "refresh",
				Name:      "outcomes_total",
				Help:      "Settled user data refresh operations by area and status.",
			},
			[]string{"area", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reservekit",
				Subsystem: "refresh",
				Name:      "duration_seconds",
				Help:      "Duration of user data refresh operations in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"area"},
		),
	}

	var err error
	if m.outcomes, err = register(reg, m.outcomes); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses a collector already registered by another coordinator.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, errors.Join(ErrMetricsRegistration, err)
	}
	return c, nil
}

func (m *metrics) observe(area Area, status Status, d time.Duration) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(area), string(status)).Inc()
	m.duration.WithLabelValues(string(area)).Observe(d.Seconds())
}
