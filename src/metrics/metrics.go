// Package metrics collects per-run counters and exports them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hostscout"

// Recorder collects run metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	records     *prometheus.CounterVec
	lookups     *prometheus.CounterVec
	runDuration prometheus.Gauge
	lastRun     prometheus.Gauge
}

// New creates a Recorder with its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by result.",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records leaving each pipeline stage.",
		}, []string{"stage"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Enrichment lookups by kind and result.",
		}, []string{"kind", "result"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	r.registry.MustRegister(r.runsTotal, r.records, r.lookups, r.runDuration, r.lastRun)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveStage adds n records to the given stage counter
func (r *Recorder) ObserveStage(stage string, n int) {
	if r == nil {
		return
	}
	r.records.WithLabelValues(stage).Add(float64(n))
}

// ObserveLookup counts one enrichment lookup
func (r *Recorder) ObserveLookup(kind string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.lookups.WithLabelValues(kind, result).Inc()
}

// ObserveRun records the outcome of a whole run
func (r *Recorder) ObserveRun(d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.runsTotal.WithLabelValues(result).Inc()
	r.runDuration.Set(d.Seconds())
	r.lastRun.SetToCurrentTime()
}

// WriteTextfile writes every metric to path, atomically
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
