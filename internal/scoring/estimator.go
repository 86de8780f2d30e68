package scoring

import (
	"slices"

	"creditrisk/internal/decision"
)

// Adjustment records one rule that fired during an estimate.
type Adjustment struct {
	Rule   string `json:"rule"`
	Signal Signal `json:"signal"`
	Points int    `json:"points"`
}

// Breakdown shows how a score was reached: Base plus every Adjustment gives
// Raw, and Raw saturated to [MinScore, MaxScore] gives Score.
type Breakdown struct {
	Base        int          `json:"base"`
	Adjustments []Adjustment `json:"adjustments"`
	Raw         int          `json:"raw"`
	Score       CreditScore  `json:"score"`
}

// Assessment is the full single-applicant result: score, band and advice.
type Assessment struct {
	Score     CreditScore         `json:"score"`
	Band      decision.HealthBand `json:"band"`
	Summary   string              `json:"summary"`
	Breakdown Breakdown           `json:"breakdown"`
	Tips      []string            `json:"tips"`
}

// Estimator applies an additive point table to applicant profiles. It holds
// no mutable state and is safe for concurrent use.
type Estimator struct {
	base  int
	rules []Rule
}

// Option configures the Estimator.
type Option func(*Estimator)

// WithRules replaces the point table.
func WithRules(rules ...Rule) Option {
	return func(e *Estimator) {
		e.rules = slices.Clone(rules)
	}
}

// WithExtraRules appends rules to the current point table.
func WithExtraRules(rules ...Rule) Option {
	return func(e *Estimator) {
		e.rules = append(slices.Clone(e.rules), rules...)
	}
}

// WithBase overrides the starting score.
func WithBase(base int) Option {
	return func(e *Estimator) {
		e.base = base
	}
}

// New creates an estimator using the reference table unless overridden.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		base:  BaseScore,
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEstimator = New()

// Estimate scores a profile with the reference table.
func Estimate(p ApplicantProfile) CreditScore {
	return defaultEstimator.Estimate(p)
}

// Explain scores a profile with the reference table and returns the breakdown.
func Explain(p ApplicantProfile) Breakdown {
	return defaultEstimator.Explain(p)
}

// Assess scores a profile with the reference table and attaches band and tips.
func Assess(p ApplicantProfile) Assessment {
	return defaultEstimator.Assess(p)
}

// Estimate returns the saturated score for p.
func (e *Estimator) Estimate(p ApplicantProfile) CreditScore {
	return e.Explain(p).Score
}

// Explain evaluates every rule against p, sums the points that apply and
// clamps the total to [MinScore, MaxScore].
func (e *Estimator) Explain(p ApplicantProfile) Breakdown {
	b := Breakdown{
		Base:        e.base,
		Adjustments: []Adjustment{},
	}
	total := e.base
	for _, r := range e.rules {
		if r.Applies == nil || !r.Applies(p) {
			continue
		}
		total += r.Points
		b.Adjustments = append(b.Adjustments, Adjustment{
			Rule:   r.Name,
			Signal: r.Signal,
			Points: r.Points,
		})
	}
	b.Raw = total
	b.Score = CreditScore(min(max(total, MinScore), MaxScore))
	return b
}

// Assess returns the score, its band, and a tip for each rule that cost points.
func (e *Estimator) Assess(p ApplicantProfile) Assessment {
	b := e.Explain(p)
	band := b.Score.Band()
	return Assessment{
		Score:     b.Score,
		Band:      band,
		Summary:   band.Summary(),
		Breakdown: b,
		Tips:      e.tips(b),
	}
}

func (e *Estimator) tips(b Breakdown) []string {
	tips := []string{}
	for _, adj := range b.Adjustments {
		if adj.Points >= 0 {
			continue
		}
		i := slices.IndexFunc(e.rules, func(r Rule) bool { return r.Name == adj.Rule })
		if i < 0 || e.rules[i].Tip == "" || slices.Contains(tips, e.rules[i].Tip) {
			continue
		}
		tips = append(tips, e.rules[i].Tip)
	}
	return tips
}
