// Package metrics records per-run counters in a private prometheus registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/parser"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

const namespace = "pktscope"

// Event outcome label values.
const (
	OutcomeArrival      = "arrival"
	OutcomeReply        = "reply"
	OutcomeFiltered     = "filtered"
	OutcomeDuplicate    = "duplicate_arrival"
	OutcomeUnknownReply = "unknown_reply"
	StatusSucceeded     = "succeeded"
	StatusFailed        = "failed"
)

// Metrics holds the collectors for one analysis run.
type Metrics struct {
	registry *prometheus.Registry

	LinesRead     prometheus.Counter
	LinesMatched  prometheus.Counter
	EventsTotal   *prometheus.CounterVec
	RequestsTotal *prometheus.CounterVec
	ProcDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Log lines read",
		}),
		LinesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_matched_total",
			Help:      "Log lines matching the event grammar",
		}),
		EventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events by how the timeline builder handled them",
		}, []string{"outcome"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Reconstructed requests by function code and status",
		}, []string{"func", "status"}),
		ProcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "proc_duration_seconds",
			Help:      "Time from arrival to the last reply of successful requests",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
		}, []string{"func"}),
	}
	r.MustRegister(m.LinesRead, m.LinesMatched, m.EventsTotal, m.RequestsTotal, m.ProcDuration)
	return m
}

// Registry returns the registry holding the run collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe records the counters and durations of a finished run.
func (m *Metrics) Observe(res *aggregate.Results, src parser.SourceStats, build timeline.BuildStats) {
	m.LinesRead.Add(float64(src.LinesRead))
	m.LinesMatched.Add(float64(src.LinesMatched))

	m.EventsTotal.WithLabelValues(OutcomeArrival).Add(float64(build.Arrivals))
	m.EventsTotal.WithLabelValues(OutcomeReply).Add(float64(build.Replies))
	m.EventsTotal.WithLabelValues(OutcomeFiltered).Add(float64(build.Filtered))
	m.EventsTotal.WithLabelValues(OutcomeDuplicate).Add(float64(build.DuplicateArrivals))
	m.EventsTotal.WithLabelValues(OutcomeUnknownReply).Add(float64(build.UnknownReplies))

	for _, rec := range res.Timeline.Records() {
		if !rec.Succeeded {
			m.RequestsTotal.WithLabelValues(rec.FuncCode, StatusFailed).Inc()
			continue
		}
		m.RequestsTotal.WithLabelValues(rec.FuncCode, StatusSucceeded).Inc()
		m.ProcDuration.WithLabelValues(rec.FuncCode).Observe(rec.ProcDuration)
	}
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
