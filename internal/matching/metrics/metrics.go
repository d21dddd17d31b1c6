package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Commit results used as the "result" label.
const (
	CommitResultCommitted        = "committed"
	CommitResultAlreadyCommitted = "already_committed"
	CommitResultStale            = "stale"
	CommitResultNotFound         = "not_found"
	CommitResultLedgerFailed     = "ledger_failed"
	CommitResultError            = "error"
)

// Metrics provides observability for the matching engine.
type Metrics struct {
	MatchAttempts   *prometheus.CounterVec
	MatchesReleased prometheus.Counter
	Commits         *prometheus.CounterVec
	CommitDuration  prometheus.Histogram
	LockWait        prometheus.Histogram
}

// New registers matching metrics with the default registry. Call once per process.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MatchAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "organmatch_match_attempts_total",
			Help: "Match attempts by outcome (matched, no_recipient_waiting, no_compatible_donor, error)",
		}, []string{"outcome"}),
		MatchesReleased: f.NewCounter(prometheus.CounterOpts{
			Name: "organmatch_matches_released_total",
			Help: "Reserved matches released back to the pools",
		}),
		Commits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "organmatch_commits_total",
			Help: "Commit calls by result",
		}, []string{"result"}),
		CommitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "organmatch_commit_duration_seconds",
			Help:    "Duration of Commit including the ledger append",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LockWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "organmatch_tenant_lock_wait_seconds",
			Help:    "Time spent waiting for the per-tenant lock",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementAttempt(outcome string) {
	if m == nil {
		return
	}
	m.MatchAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementReleased() {
	if m == nil {
		return
	}
	m.MatchesReleased.Inc()
}

// ObserveCommit records a commit result and its duration.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCommit(result string, start time.Time) {
	if m == nil {
		return
	}
	m.Commits.WithLabelValues(result).Inc()
	m.CommitDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveLockWait(start time.Time) {
	if m == nil {
		return
	}
	m.LockWait.Observe(time.Since(start).Seconds())
}
