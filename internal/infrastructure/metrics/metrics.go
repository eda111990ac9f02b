package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the posting engine.
type Metrics struct {
	// Posting metrics
	BatchesPosted   *prometheus.CounterVec
	PostingErrors   *prometheus.CounterVec
	DuplicateRaces  prometheus.Counter
	PostingDuration prometheus.Histogram
	LinesPerBatch   prometheus.Histogram

	// Sync hook metrics
	HookOutcomes *prometheus.CounterVec

	// Backfill metrics
	BackfillRows *prometheus.CounterVec

	// Reconciliation metrics
	ReconciliationFindings *prometheus.GaugeVec
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BatchesPosted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jurnapod_journal_batches_posted_total",
			Help: "Total number of journal batches posted, by document type",
		}, []string{"doc_type"}),
		PostingErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jurnapod_posting_errors_total",
			Help: "Total number of failed posting attempts, by document type",
		}, []string{"doc_type"}),
		DuplicateRaces: factory.NewCounter(prometheus.CounterOpts{
			Name: "jurnapod_posting_duplicate_races_total",
			Help: "Posting attempts resolved as already-posted",
		}),
		PostingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jurnapod_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		LinesPerBatch: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jurnapod_journal_lines_per_batch",
			Help:    "Number of lines per posted batch",
			Buckets: []float64{2, 3, 4, 6, 8, 12, 20},
		}),
		HookOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jurnapod_sync_hook_outcomes_total",
			Help: "Sync-push posting hook outcomes, by mode and outcome",
		}, []string{"mode", "outcome"}),
		BackfillRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jurnapod_backfill_rows_total",
			Help: "Backfill row outcomes, by status",
		}, []string{"status"}),
		ReconciliationFindings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "jurnapod_reconciliation_findings",
			Help: "Findings from the last reconciliation report, by kind",
		}, []string{"kind"}),
	}
}
