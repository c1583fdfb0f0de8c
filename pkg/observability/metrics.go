package observability

import (
	"context"

	"github.com/aretw0/voxgen/pkg/generator"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxgen"

// Metrics collects run counters and durations. It implements prometheus.Collector.
type Metrics struct {
	runs        *prometheus.CounterVec
	transitions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	voxels      *prometheus.CounterVec
	inFlight    prometheus.Gauge
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of finished generator runs",
			},
			[]string{"script", "state"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Run state transitions",
			},
			[]string{"from", "to"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of generator runs",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"script"},
		),
		voxels: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "voxel_writes_total",
				Help:      "Voxel writes by scripts, split by whether the guard accepted them",
			},
			[]string{"result"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "runs_in_flight",
			Help:      "Generator runs currently executing",
		}),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.runs.Describe(ch)
	m.transitions.Describe(ch)
	m.duration.Describe(ch)
	m.voxels.Describe(ch)
	m.inFlight.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.runs.Collect(ch)
	m.transitions.Collect(ch)
	m.duration.Collect(ch)
	m.voxels.Collect(ch)
	m.inFlight.Collect(ch)
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() generator.Hooks {
	return generator.Hooks{
		OnRunStart: func(_ context.Context, _ *generator.RunEvent) {
			m.inFlight.Inc()
		},
		OnStateChange: func(_ context.Context, e *generator.StateEvent) {
			m.transitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
		},
		OnRunFinish: func(_ context.Context, r *generator.Result) {
			m.inFlight.Dec()
			m.runs.WithLabelValues(r.Script, r.State.String()).Inc()
			m.duration.WithLabelValues(r.Script).Observe(r.Duration.Seconds())
			m.voxels.WithLabelValues("written").Add(float64(r.Written))
			m.voxels.WithLabelValues("rejected").Add(float64(r.Rejected))
		},
	}
}
