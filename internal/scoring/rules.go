package scoring

import "slices"

// Rule is one row of the additive point table: when Applies matches the
// profile, Points is added to the running score. Rules are independent; any
// number of them may fire for one profile.
type Rule struct {
	Name    string
	Signal  Signal
	Points  int
	Applies func(ApplicantProfile) bool
	// Tip is advice shown when the rule costs points.
	Tip string
}

const (
	tipPayOnTime      = "Pay EMIs and credit card bills on time."
	tipUtilization    = "Keep credit utilization below 30%."
	tipFewerInquiries = "Avoid too many loan or credit card applications."
	tipLongHistory    = "Maintain a long credit history."
)

// defaultRules is the reference point table. The loan mix rule rewards more
// than one active loan; it is kept as observed in the questionnaire.
var defaultRules = []Rule{
	{
		Name:    "payment_history_never",
		Signal:  SignalPaymentHistory,
		Points:  100,
		Applies: func(p ApplicantProfile) bool { return p.PaymentHistory == PaymentNever },
	},
	{
		Name:    "payment_history_rarely",
		Signal:  SignalPaymentHistory,
		Points:  -50,
		Applies: func(p ApplicantProfile) bool { return p.PaymentHistory == PaymentRarely },
		Tip:     tipPayOnTime,
	},
	{
		Name:    "payment_history_often",
		Signal:  SignalPaymentHistory,
		Points:  -100,
		Applies: func(p ApplicantProfile) bool { return p.PaymentHistory == PaymentOften },
		Tip:     tipPayOnTime,
	},
	{
		Name:    "utilization_low",
		Signal:  SignalCreditUtilization,
		Points:  50,
		Applies: func(p ApplicantProfile) bool { return p.CreditUtilization < 30 },
	},
	{
		Name:    "utilization_high",
		Signal:  SignalCreditUtilization,
		Points:  -100,
		Applies: func(p ApplicantProfile) bool { return p.CreditUtilization > 60 },
		Tip:     tipUtilization,
	},
	{
		Name:    "history_long",
		Signal:  SignalCreditHistoryYears,
		Points:  50,
		Applies: func(p ApplicantProfile) bool { return p.CreditHistoryYears > 5 },
	},
	{
		Name:    "history_short",
		Signal:  SignalCreditHistoryYears,
		Points:  -50,
		Applies: func(p ApplicantProfile) bool { return p.CreditHistoryYears < 2 },
		Tip:     tipLongHistory,
	},
	{
		Name:    "inquiries_many",
		Signal:  SignalRecentInquiries,
		Points:  -50,
		Applies: func(p ApplicantProfile) bool { return p.RecentInquiries > 3 },
		Tip:     tipFewerInquiries,
	},
	{
		Name:    "loan_mix",
		Signal:  SignalActiveLoans,
		Points:  20,
		Applies: func(p ApplicantProfile) bool { return p.ActiveLoans > 1 },
	},
}

// DefaultRules returns a copy of the reference point table.
func DefaultRules() []Rule {
	return slices.Clone(defaultRules)
}
