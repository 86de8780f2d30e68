package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for single-applicant scoring and
// batch result downloads.
type Metrics struct {
	EstimatesTotal    *prometheus.CounterVec
	ScoreDistribution prometheus.Histogram
	PredictionsTotal  *prometheus.CounterVec
	PredictLatency    prometheus.Histogram
	DownloadsTotal    *prometheus.CounterVec
}

// New registers scoring collectors with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		EstimatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creditrisk_score_estimates_total",
			Help: "Total number of credit score estimates, labeled by health band",
		}, []string{"band"}),
		ScoreDistribution: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditrisk_estimated_score",
			Help:    "Distribution of estimated credit scores",
			Buckets: []float64{350, 400, 450, 500, 550, 600, 650, 700, 750, 800, 850, 900},
		}),
		PredictionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creditrisk_risk_predictions_total",
			Help: "Total number of single-applicant risk predictions, labeled by risk label",
		}, []string{"label"}),
		PredictLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditrisk_predict_latency_seconds",
			Help:    "Latency of single-applicant predictions in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		DownloadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "creditrisk_batch_downloads_total",
			Help: "Total number of batch result downloads, labeled by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) ObserveEstimate(band string, score int) {
	m.EstimatesTotal.WithLabelValues(band).Inc()
	m.ScoreDistribution.Observe(float64(score))
}

func (m *Metrics) ObservePrediction(label string, durationSeconds float64) {
	m.PredictionsTotal.WithLabelValues(label).Inc()
	m.PredictLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementDownloads(outcome string) {
	m.DownloadsTotal.WithLabelValues(outcome).Inc()
}
