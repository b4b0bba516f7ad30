package robotick

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics publishes scheduler timing to a real Prometheus registry,
// replacing the teacher's hand-rolled exposition-text writer
// (observability.go's PrometheusWorkGroupCollector) with
// github.com/prometheus/client_golang/prometheus (pulled from the
// ghjramos-aistore dependency set — SPEC_FULL.md §7).
type Metrics struct {
	tickDuration *prometheus.HistogramVec
	tickFailures *prometheus.CounterVec
}

// NewMetrics constructs a Metrics and registers its collectors with reg. If
// reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		tickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "robotick",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of a workload's own tick call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"workload", "type"}),
		tickFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "robotick",
			Name:      "tick_failures_total",
			Help:      "Count of tick calls that returned an error or panicked.",
		}, []string{"workload", "type"}),
	}
	reg.MustRegister(m.tickDuration, m.tickFailures)
	return m
}

// ObserveTick records one workload's tick duration and, if err != nil,
// increments the failure counter. The tick loop calls this after every
// timed Tick of a workload whose base has Metrics installed (SetMetrics,
// which the Composer applies for WithMetrics), so workloads do not call it
// themselves.
func (m *Metrics) ObserveTick(workload, typeName string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.tickDuration.WithLabelValues(workload, typeName).Observe(d.Seconds())
	if err != nil {
		m.tickFailures.WithLabelValues(workload, typeName).Inc()
	}
}
