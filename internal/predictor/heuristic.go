package predictor

import (
	"context"

	"creditrisk/internal/batch"
	"creditrisk/internal/scoring"
)

// Heuristic derives the default probability from the estimated credit
// score: MaxScore maps to 0, MinScore maps to 1, linearly in between.
type Heuristic struct {
	estimator *scoring.Estimator
}

// NewHeuristic uses e, or the reference estimator when e is nil.
func NewHeuristic(e *scoring.Estimator) *Heuristic {
	if e == nil {
		e = scoring.New()
	}
	return &Heuristic{estimator: e}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Predict(_ context.Context, r batch.Record) (float64, error) {
	profile, err := ProfileFromRecord(r)
	if err != nil {
		return 0, err
	}
	return ProbabilityFromScore(h.estimator.Estimate(profile)), nil
}

// ProbabilityFromScore maps a score in [MinScore, MaxScore] onto [0,1].
func ProbabilityFromScore(s scoring.CreditScore) float64 {
	return float64(scoring.MaxScore-int(s)) / float64(scoring.MaxScore-scoring.MinScore)
}
