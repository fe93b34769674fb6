// Package metrics holds the Prometheus collectors of the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukaji3/scope2-go/pkg/scope2"
)

// Run results recorded in RunsTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics bundles split pipeline metrics.
type Metrics struct {
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	BucketRows  *prometheus.CounterVec
	Diagnostics *prometheus.CounterVec
}

// New constructs the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scope2_runs_total",
				Help: "Total split runs by result",
			},
			[]string{"result"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scope2_run_duration_seconds",
			Help:    "Split run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		BucketRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scope2_bucket_rows_total",
				Help: "Rows written per facility bucket",
			},
			[]string{"bucket"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scope2_diagnostics_total",
				Help: "Non-fatal findings by kind",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.BucketRows,
		m.Diagnostics,
	)
	return m
}

// ObserveRun records one pipeline run. res may be nil when err is set.
func (m *Metrics) ObserveRun(res *scope2.Result, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues(ResultError).Inc()
		return
	}
	m.RunsTotal.WithLabelValues(ResultOK).Inc()
	if res == nil {
		return
	}
	for _, o := range res.Outputs {
		m.BucketRows.WithLabelValues(o.Bucket.Name).Add(float64(o.Table.Len()))
	}
	for _, d := range res.Diagnostics {
		m.Diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}
