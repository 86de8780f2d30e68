package decision

import (
	"fmt"
	"math"
)

const (
	// DefaultRiskThreshold is the probability above which an applicant is HighRisk.
	DefaultRiskThreshold = 0.5

	// Band breakpoints. Each is the lowest score of its band.
	FairFrom      = 500
	GoodFrom      = 650
	ExcellentFrom = 750
)

// Band maps a credit score to its health band. Bands are half-open
// intervals: a score equal to a breakpoint belongs to the higher band.
func Band(score int) HealthBand {
	switch {
	case score >= ExcellentFrom:
		return BandExcellent
	case score >= GoodFrom:
		return BandGood
	case score >= FairFrom:
		return BandFair
	default:
		return BandPoor
	}
}

// Label maps a default probability to a risk label using the default
// threshold. Exactly 0.5 is LowRisk.
func Label(probability float64) RiskLabel {
	return defaultPolicy.Label(probability)
}

var defaultPolicy = Policy{}

// Policy is the thresholding rule shared by the single and batch paths. The
// zero value applies DefaultRiskThreshold; NewPolicy sets a custom one.
type Policy struct {
	threshold float64
	custom    bool
}

// Default returns the policy with the standard 0.5 threshold.
func Default() Policy {
	return defaultPolicy
}

// NewPolicy returns a policy with a custom threshold in [0,1].
func NewPolicy(threshold float64) (Policy, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return Policy{}, fmt.Errorf("risk threshold must be within [0,1], got %v", threshold)
	}
	return Policy{threshold: threshold, custom: true}, nil
}

// Threshold returns the probability above which applicants are HighRisk.
func (p Policy) Threshold() float64 {
	if !p.custom {
		return DefaultRiskThreshold
	}
	return p.threshold
}

// Label applies strict greater-than: probability > threshold is HighRisk.
func (p Policy) Label(probability float64) RiskLabel {
	if probability > p.Threshold() {
		return HighRisk
	}
	return LowRisk
}

// Band maps a score to its health band.
func (p Policy) Band(score int) HealthBand {
	return Band(score)
}

// CheckProbability reports a value that cannot be a probability: NaN or
// outside [0,1].
func CheckProbability(p float64) error {
	if math.IsNaN(p) {
		return fmt.Errorf("probability is NaN")
	}
	if p < 0 || p > 1 {
		return fmt.Errorf("probability %v outside [0,1]", p)
	}
	return nil
}
