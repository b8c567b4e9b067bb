// Package metrics records Prometheus metrics for realization filter
// reconciliation and filter runs.
//
// A nil *Recorder is valid and records nothing, so components can take one
// unconditionally.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package metrics

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Namespace for all metrics
const metricsNamespace = "enskit"

// Subsystem for realization filter metrics
const filterSubsystem = "realization_filter"

// Recorder holds the Prometheus collectors.
type Recorder struct {
	SynchronizeTotal   prometheus.Counter
	FiltersAddedTotal  prometheus.Counter
	FiltersRemoved     prometheus.Counter
	ActiveFilters      prometheus.Gauge
	RunsTotal          *prometheus.CounterVec
	RunDurationSeconds prometheus.Histogram
	InvariantErrors    prometheus.Counter
}

// NewRecorder registers the collectors with reg. Pass
// prometheus.DefaultRegisterer in a process, a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		SynchronizeTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "synchronize_total",
			Help:      "Number of filter set reconciliations against an ensemble set",
		}),
		FiltersAddedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "added_total",
			Help:      "Filters created for newly seen ensembles",
		}),
		FiltersRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "removed_total",
			Help:      "Filters dropped because their ensemble disappeared",
		}),
		ActiveFilters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "active",
			Help:      "Filters currently held by the filter set",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "runs_total",
			Help:      "Committed filter runs by filter type and polarity",
		}, []string{"filter_type", "polarity"}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Time spent computing committed realizations",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}),
		InvariantErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: filterSubsystem,
			Name:      "invariant_violations_total",
			Help:      "Filter lookups for well-formed idents missing from the filter set",
		}),
	}
}

// RecordSynchronize records one reconciliation and the resulting filter count.
func (r *Recorder) RecordSynchronize(added, removed, active int) {
	if r == nil {
		return
	}
	r.SynchronizeTotal.Inc()
	r.FiltersAddedTotal.Add(float64(added))
	r.FiltersRemoved.Add(float64(removed))
	r.ActiveFilters.Set(float64(active))
}

// RecordRun records one committed filter run.
func (r *Recorder) RecordRun(filterType, polarity string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.RunsTotal.WithLabelValues(filterType, polarity).Inc()
	r.RunDurationSeconds.Observe(elapsed.Seconds())
}

// RecordInvariantViolation counts a lookup that found no filter.
func (r *Recorder) RecordInvariantViolation() {
	if r == nil {
		return
	}
	r.InvariantErrors.Inc()
}

// Samples gathers g and returns one "name{labels} value" line per sample,
// ordered by metric name. Histograms report their count and sum.
func Samples(g prometheus.Gatherer) ([]string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []string
	for _, mf := range families {
		name := mf.GetName()
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, fmt.Sprintf("%s%s %g", name, labels, m.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				out = append(out, fmt.Sprintf("%s%s %g", name, labels, m.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				out = append(out,
					fmt.Sprintf("%s_count%s %d", name, labels, h.GetSampleCount()),
					fmt.Sprintf("%s_sum%s %g", name, labels, h.GetSampleSum()),
				)
			}
		}
	}
	return out, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, lp := range pairs {
		parts[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
