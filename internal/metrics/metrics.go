// Package metrics registers the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lantabur"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	extractions *prometheus.CounterVec
	storeWrites *prometheus.CounterVec
	aggregation *prometheus.HistogramVec
	subscribers prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Document extractions by report kind and outcome.",
		}, []string{"kind", "outcome"}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Record store writes by collection, operation and outcome.",
		}, []string{"collection", "op", "outcome"}),
		aggregation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent aggregating a record snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"view"}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Open realtime snapshot subscriptions.",
		}),
	}
	reg.MustRegister(m.extractions, m.storeWrites, m.aggregation, m.subscribers)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Extraction counts one extraction attempt.
func (m *Metrics) Extraction(kind string, err error) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(kind, outcome(err)).Inc()
}

// StoreWrite counts one write against the record store.
func (m *Metrics) StoreWrite(collection, op string, err error) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(collection, op, outcome(err)).Inc()
}

// ObserveAggregation records how long a view took to aggregate.
func (m *Metrics) ObserveAggregation(view string, started time.Time) {
	if m == nil {
		return
	}
	m.aggregation.WithLabelValues(view).Observe(time.Since(started).Seconds())
}

// SubscriberDelta moves the open subscription gauge.
func (m *Metrics) SubscriberDelta(delta float64) {
	if m == nil {
		return
	}
	m.subscribers.Add(delta)
}
