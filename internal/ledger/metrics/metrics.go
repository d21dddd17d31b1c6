package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers ledger appends and outbox publication.
type Metrics struct {
	RecordsAppended    prometheus.Counter
	DuplicateAppends   prometheus.Counter
	OutboxPublished    prometheus.Counter
	OutboxPublishFails prometheus.Counter
	OutboxPending      prometheus.Gauge
}

// New registers ledger metrics with the default registry. Call once per process.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsAppended: f.NewCounter(prometheus.CounterOpts{
			Name: "organmatch_ledger_records_appended_total",
			Help: "Transplant records written to the ledger",
		}),
		DuplicateAppends: f.NewCounter(prometheus.CounterOpts{
			Name: "organmatch_ledger_duplicate_appends_total",
			Help: "Appends ignored because the record already existed (retried commits)",
		}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "organmatch_outbox_published_total",
			Help: "Ledger records acknowledged by the broker",
		}),
		OutboxPublishFails: f.NewCounter(prometheus.CounterOpts{
			Name: "organmatch_outbox_publish_failures_total",
			Help: "Failed publish attempts; entries are retried on the next drain",
		}),
		OutboxPending: f.NewGauge(prometheus.GaugeOpts{
			Name: "organmatch_outbox_pending",
			Help: "Entries seen in the outbox at the start of the last drain",
		}),
	}
}

func (m *Metrics) IncrementAppended() {
	if m == nil {
		return
	}
	m.RecordsAppended.Inc()
}

func (m *Metrics) IncrementDuplicate() {
	if m == nil {
		return
	}
	m.DuplicateAppends.Inc()
}

func (m *Metrics) IncrementPublished() {
	if m == nil {
		return
	}
	m.OutboxPublished.Inc()
}

func (m *Metrics) IncrementPublishFailure() {
	if m == nil {
		return
	}
	m.OutboxPublishFails.Inc()
}

func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.OutboxPending.Set(float64(n))
}
