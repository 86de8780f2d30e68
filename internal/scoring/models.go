package scoring

import (
	"fmt"
	"strings"

	"creditrisk/internal/decision"
	dErrors "creditrisk/pkg/domain-errors"
)

// PaymentHistory is how often the applicant misses EMI or card payments.
type PaymentHistory string

const (
	PaymentNever  PaymentHistory = "never"
	PaymentRarely PaymentHistory = "rarely"
	PaymentOften  PaymentHistory = "often"
)

// ParsePaymentHistory accepts the canonical values and the questionnaire
// labels ("Rarely (1-2 times)", "Often (3+ times)"), case-insensitively.
//
// Errors: returns CodeValidation for anything else.
func ParsePaymentHistory(s string) (PaymentHistory, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == string(PaymentNever):
		return PaymentNever, nil
	case v == string(PaymentRarely), strings.HasPrefix(v, "rarely ("):
		return PaymentRarely, nil
	case v == string(PaymentOften), strings.HasPrefix(v, "often ("):
		return PaymentOften, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s must be one of [never rarely often], got %q", SignalPaymentHistory, s))
	}
}

// Signal names one applicant attribute. The values double as column names
// in batch tables and JSON field names.
type Signal string

const (
	SignalPaymentHistory     Signal = "payment_history"
	SignalCreditUtilization  Signal = "credit_utilization"
	SignalCreditHistoryYears Signal = "credit_history_years"
	SignalActiveLoans        Signal = "active_loans"
	SignalRecentInquiries    Signal = "recent_inquiries"
)

// Signals lists every profile signal in questionnaire order.
var Signals = []Signal{
	SignalPaymentHistory,
	SignalCreditUtilization,
	SignalCreditHistoryYears,
	SignalActiveLoans,
	SignalRecentInquiries,
}

// ApplicantProfile holds the five signals the estimator scores. The
// estimator assumes every field is inside its declared range; callers at a
// trust boundary run Validate first.
type ApplicantProfile struct {
	PaymentHistory     PaymentHistory
	CreditUtilization  int // percent of limit used, [0,100]
	CreditHistoryYears int // [0,20]
	ActiveLoans        int // [0,10]
	RecentInquiries    int // applications in the last six months, [0,10]
}

// Range is the inclusive domain of a numeric signal.
type Range struct {
	Min, Max int
}

// Ranges holds the declared domain of every numeric signal.
var Ranges = map[Signal]Range{
	SignalCreditUtilization:  {0, 100},
	SignalCreditHistoryYears: {0, 20},
	SignalActiveLoans:        {0, 10},
	SignalRecentInquiries:    {0, 10},
}

// Validate rejects out-of-range values instead of clamping them.
//
// Errors: returns CodeValidation naming the first offending signal.
func (p ApplicantProfile) Validate() error {
	if _, err := ParsePaymentHistory(string(p.PaymentHistory)); err != nil {
		return err
	}
	numeric := []struct {
		signal Signal
		value  int
	}{
		{SignalCreditUtilization, p.CreditUtilization},
		{SignalCreditHistoryYears, p.CreditHistoryYears},
		{SignalActiveLoans, p.ActiveLoans},
		{SignalRecentInquiries, p.RecentInquiries},
	}
	for _, n := range numeric {
		r := Ranges[n.signal]
		if n.value < r.Min || n.value > r.Max {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("%s must be within [%d,%d], got %d", n.signal, r.Min, r.Max, n.value))
		}
	}
	return nil
}

// CreditScore is a bureau-style score in [MinScore, MaxScore]. It is derived
// on every call and never stored.
type CreditScore int

const (
	BaseScore = 700
	MinScore  = 300
	MaxScore  = 900
)

// Band returns the health band of the score.
func (s CreditScore) Band() decision.HealthBand {
	return decision.Band(int(s))
}
