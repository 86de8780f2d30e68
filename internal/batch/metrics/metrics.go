package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for batch scoring.
type Metrics struct {
	BatchesTotal  *prometheus.CounterVec
	RowsScored    prometheus.Counter
	BatchDuration prometheus.Histogram
	BatchRows     prometheus.Histogram
	HighRiskRows  prometheus.Counter
}

// New registers batch collectors with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		BatchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creditrisk_batches_total",
			Help: "Total number of batch scoring runs, labeled by outcome",
		}, []string{"outcome"}),
		RowsScored: f.NewCounter(prometheus.CounterOpts{
			Name: "creditrisk_batch_rows_scored_total",
			Help: "Total number of rows scored in successful batches",
		}),
		BatchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditrisk_batch_duration_seconds",
			Help:    "Duration of batch scoring runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		BatchRows: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditrisk_batch_rows",
			Help:    "Distribution of submitted batch sizes in rows",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		}),
		HighRiskRows: f.NewCounter(prometheus.CounterOpts{
			Name: "creditrisk_batch_high_risk_rows_total",
			Help: "Total number of rows labeled High Risk",
		}),
	}
}

// Outcome label values.
const (
	OutcomeSuccess            = "success"
	OutcomePredictorError     = "predictor_error"
	OutcomeInvalidProbability = "invalid_probability"
	OutcomePanic              = "panic"
	OutcomeCanceled           = "canceled"
)

func (m *Metrics) IncrementBatches(outcome string) {
	m.BatchesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AddRowsScored(n int) {
	m.RowsScored.Add(float64(n))
}

func (m *Metrics) AddHighRisk(n int) {
	m.HighRiskRows.Add(float64(n))
}

func (m *Metrics) ObserveBatch(rows int, durationSeconds float64) {
	m.BatchRows.Observe(float64(rows))
	m.BatchDuration.Observe(durationSeconds)
}
