// Package metrics implements the RunMetrics port with Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunMetrics = (*Recorder)(nil)

// Recorder counts replication runs and their latency by outcome.
type Recorder struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stitchsync",
				Name:      "replication_runs_total",
				Help:      "Replication jobs triggered, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stitchsync",
				Name:      "replication_run_duration_seconds",
				Help:      "Time spent waiting for Stitch to accept or refuse a replication job.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{r.runs, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRun records one finished run.
func (r *Recorder) ObserveRun(status model.RunStatus, elapsed time.Duration) {
	outcome := string(status)
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
