// Package metrics exposes Prometheus collectors for document loads and
// extractions. A nil *Metrics records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sc3stuff/sc3stuff/graph"
)

// Load results.
const (
	ResultOK      = "ok"
	ResultIO      = "io_error"
	ResultFormat  = "format_error"
	ResultSkipped = "skipped"
)

// Metrics holds the collectors registered by New.
type Metrics struct {
	documentsLoaded *prometheus.CounterVec
	objectsKept     *prometheus.CounterVec
	objectsDropped  *prometheus.CounterVec
	extractDur      prometheus.Summary
}

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documentsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc3stuff",
			Name:      "documents_loaded_total",
			Help:      "Number of archive loads by result",
		}, []string{"result"}),
		objectsKept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc3stuff",
			Name:      "objects_kept_total",
			Help:      "Objects kept by extraction, by kind",
		}, []string{"kind"}),
		objectsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc3stuff",
			Name:      "objects_discarded_total",
			Help:      "Objects removed from a document and dropped by a filter, by kind",
		}, []string{"kind"}),
		extractDur: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "sc3stuff",
			Name:      "extract_duration_seconds",
			Help:      "Time spent extracting the event graph of a document",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.documentsLoaded, m.objectsKept, m.objectsDropped, m.extractDur)
	}
	return m
}

// ObserveLoad counts one archive load with the given result.
func (m *Metrics) ObserveLoad(result string) {
	if m == nil {
		return
	}
	m.documentsLoaded.WithLabelValues(result).Inc()
}

// ObserveExtraction records the kept and discarded counts of x and the
// time the extraction took.
func (m *Metrics) ObserveExtraction(x *graph.Extraction, d time.Duration) {
	if m == nil || x == nil {
		return
	}
	kept := x.Kept()
	for _, kind := range graph.Kinds {
		m.objectsKept.WithLabelValues(kind).Add(float64(kept.ByKind(kind)))
		m.objectsDropped.WithLabelValues(kind).Add(float64(x.Discarded.ByKind(kind)))
	}
	m.extractDur.Observe(d.Seconds())
}
