// Package predictor turns applicant records into default probabilities.
//
// Every model sits behind the Predictor interface so that scoring code never
// depends on how a model is built or serialized.
package predictor

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"creditrisk/internal/batch"
	"creditrisk/internal/scoring"
	dErrors "creditrisk/pkg/domain-errors"
)

// Predictor returns the probability in [0,1] that the applicant defaults.
// Implementations must be safe for concurrent use.
type Predictor interface {
	Name() string
	Predict(ctx context.Context, r batch.Record) (float64, error)
}

// Explainer is implemented by predictors that can report how much each input
// feature contributes to their output.
type Explainer interface {
	Importance() map[string]float64
}

// ImportanceOf returns p's feature importance, or nil when p cannot explain
// itself.
func ImportanceOf(p Predictor) map[string]float64 {
	e, ok := p.(Explainer)
	if !ok {
		return nil
	}
	imp := e.Importance()
	if len(imp) == 0 {
		return nil
	}
	return imp
}

// AsProbabilityFunc adapts p for the batch scorer.
func AsProbabilityFunc(p Predictor) batch.ProbabilityFunc {
	return p.Predict
}

// Func adapts a plain function to Predictor.
type Func struct {
	Label string
	Fn    batch.ProbabilityFunc
}

func (f Func) Name() string { return f.Label }

func (f Func) Predict(ctx context.Context, r batch.Record) (float64, error) {
	return f.Fn(ctx, r)
}

// ProfileFromRecord reads the five profile signals from r.
//
// Errors: CodeValidation when a column is missing, not a whole number, or
// outside its declared range.
func ProfileFromRecord(r batch.Record) (scoring.ApplicantProfile, error) {
	raw, ok := r.Get(string(scoring.SignalPaymentHistory))
	if !ok {
		return scoring.ApplicantProfile{}, missingColumn(scoring.SignalPaymentHistory)
	}
	history, err := scoring.ParsePaymentHistory(raw)
	if err != nil {
		return scoring.ApplicantProfile{}, err
	}
	p := scoring.ApplicantProfile{PaymentHistory: history}
	fields := []struct {
		signal scoring.Signal
		dst    *int
	}{
		{scoring.SignalCreditUtilization, &p.CreditUtilization},
		{scoring.SignalCreditHistoryYears, &p.CreditHistoryYears},
		{scoring.SignalActiveLoans, &p.ActiveLoans},
		{scoring.SignalRecentInquiries, &p.RecentInquiries},
	}
	for _, f := range fields {
		v, err := intColumn(r, f.signal)
		if err != nil {
			return scoring.ApplicantProfile{}, err
		}
		*f.dst = v
	}
	if err := p.Validate(); err != nil {
		return scoring.ApplicantProfile{}, err
	}
	return p, nil
}

func intColumn(r batch.Record, signal scoring.Signal) (int, error) {
	raw, ok := r.Get(string(signal))
	if !ok {
		return 0, missingColumn(signal)
	}
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	// Spreadsheet exports often write whole numbers as "20.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s must be a whole number, got %q", signal, raw))
	}
	return int(f), nil
}

func missingColumn[T ~string](name T) error {
	return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("missing column %q", string(name)))
}
