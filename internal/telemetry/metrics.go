package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flowinvoice"

// Credit note outcomes used as metric labels.
const (
	CreditNoteApplied  = "applied"
	CreditNoteRejected = "rejected"
	CreditNoteConflict = "conflict"
)

// Metrics holds business counters for imports and credit notes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ImportBatches  prometheus.Counter
	ImportRecords  *prometheus.CounterVec
	ImportDuration prometheus.Histogram
	CreditNotes    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ImportBatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Number of invoice import batches processed",
		}),
		ImportRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Imported invoice records by outcome",
		}, []string{"outcome"}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent processing an import batch",
			Buckets:   prometheus.DefBuckets,
		}),
		CreditNotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credit_notes_total",
			Help:      "Credit note applications by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveImport records the outcome counts of one batch.
func (m *Metrics) ObserveImport(imported, duplicates, inconsistent, invalid int, took time.Duration) {
	if m == nil {
		return
	}
	m.ImportBatches.Inc()
	m.ImportRecords.WithLabelValues("imported").Add(float64(imported))
	m.ImportRecords.WithLabelValues("duplicate").Add(float64(duplicates))
	m.ImportRecords.WithLabelValues("inconsistent").Add(float64(inconsistent))
	m.ImportRecords.WithLabelValues("invalid").Add(float64(invalid))
	m.ImportDuration.Observe(took.Seconds())
}

// ObserveCreditNote counts one credit note attempt.
func (m *Metrics) ObserveCreditNote(outcome string) {
	if m == nil {
		return
	}
	m.CreditNotes.WithLabelValues(outcome).Inc()
}
