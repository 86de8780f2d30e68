package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"creditrisk/internal/decision"
	dErrors "creditrisk/pkg/domain-errors"
)

// EstimatorSuite exercises the additive point table and its saturation.
type EstimatorSuite struct {
	suite.Suite
}

func TestEstimatorSuite(t *testing.T) {
	suite.Run(t, new(EstimatorSuite))
}

func (s *EstimatorSuite) TestReferenceProfiles() {
	s.Run("clean profile saturates at the ceiling", func() {
		p := ApplicantProfile{PaymentNever, 20, 8, 0, 0}
		b := Explain(p)
		s.Equal(900, b.Raw)
		s.Equal(CreditScore(900), b.Score)
		s.Equal(decision.BandExcellent, b.Score.Band())
	})

	s.Run("stressed profile with loan mix bonus", func() {
		p := ApplicantProfile{PaymentOften, 75, 1, 3, 5}
		score := Estimate(p)
		s.Equal(CreditScore(420), score)
		s.Equal(decision.BandPoor, score.Band())
	})

	s.Run("exactly 650 is good", func() {
		p := ApplicantProfile{PaymentRarely, 45, 4, 1, 1}
		score := Estimate(p)
		s.Equal(CreditScore(650), score)
		s.Equal(decision.BandGood, score.Band())
	})
}

func (s *EstimatorSuite) TestSaturation() {
	s.Run("raw above ceiling", func() {
		p := ApplicantProfile{PaymentNever, 10, 10, 5, 0}
		b := Explain(p)
		s.Equal(920, b.Raw)
		s.Equal(CreditScore(MaxScore), b.Score)
	})

	s.Run("raw below floor", func() {
		e := New(WithBase(400))
		p := ApplicantProfile{PaymentOften, 90, 0, 0, 9}
		b := e.Explain(p)
		s.Equal(100, b.Raw)
		s.Equal(CreditScore(MinScore), b.Score)
	})
}

func (s *EstimatorSuite) TestBreakdownSums() {
	profiles := []ApplicantProfile{
		{PaymentNever, 0, 0, 0, 0},
		{PaymentRarely, 30, 2, 1, 3},
		{PaymentOften, 61, 5, 2, 4},
		{PaymentNever, 100, 20, 10, 10},
	}
	for _, p := range profiles {
		b := Explain(p)
		sum := b.Base
		for _, adj := range b.Adjustments {
			sum += adj.Points
		}
		s.Equal(b.Raw, sum, "profile %+v", p)
		s.GreaterOrEqual(int(b.Score), MinScore)
		s.LessOrEqual(int(b.Score), MaxScore)
	}
}

func (s *EstimatorSuite) TestMonotonicity() {
	base := ApplicantProfile{PaymentRarely, 45, 4, 1, 2}

	s.Run("payment history never > rarely > often", func() {
		never, rarely, often := base, base, base
		never.PaymentHistory = PaymentNever
		often.PaymentHistory = PaymentOften
		s.GreaterOrEqual(Estimate(never), Estimate(rarely))
		s.GreaterOrEqual(Estimate(rarely), Estimate(often))
	})

	s.Run("more utilization never helps", func() {
		for u := 0; u < 100; u++ {
			lo, hi := base, base
			lo.CreditUtilization = u
			hi.CreditUtilization = u + 1
			s.GreaterOrEqual(Estimate(lo), Estimate(hi), "utilization %d", u)
		}
	})

	s.Run("more inquiries never help", func() {
		for q := 0; q < 10; q++ {
			lo, hi := base, base
			lo.RecentInquiries = q
			hi.RecentInquiries = q + 1
			s.GreaterOrEqual(Estimate(lo), Estimate(hi), "inquiries %d", q)
		}
	})

	s.Run("longer history never hurts", func() {
		for y := 0; y < 20; y++ {
			lo, hi := base, base
			lo.CreditHistoryYears = y
			hi.CreditHistoryYears = y + 1
			s.LessOrEqual(Estimate(lo), Estimate(hi), "years %d", y)
		}
	})
}

func (s *EstimatorSuite) TestDeterministic() {
	p := ApplicantProfile{PaymentOften, 75, 1, 3, 5}
	first := Explain(p)
	for range 10 {
		s.Equal(first, Explain(p))
	}
}

func (s *EstimatorSuite) TestCustomRules() {
	e := New(WithExtraRules(Rule{
		Name:    "no_loans",
		Signal:  SignalActiveLoans,
		Points:  -10,
		Applies: func(p ApplicantProfile) bool { return p.ActiveLoans == 0 },
		Tip:     "Build a credit mix.",
	}))
	p := ApplicantProfile{PaymentRarely, 45, 4, 0, 1}
	s.Equal(CreditScore(640), e.Estimate(p))
	s.Equal(CreditScore(650), Estimate(p), "package table is untouched")

	only := New(WithRules())
	s.Equal(CreditScore(BaseScore), only.Estimate(p))
}

func (s *EstimatorSuite) TestAssess() {
	s.Run("tips only for rules that cost points", func() {
		a := Assess(ApplicantProfile{PaymentOften, 75, 1, 3, 5})
		s.Equal(CreditScore(420), a.Score)
		s.Equal(decision.BandPoor, a.Band)
		s.Equal(decision.BandPoor.Summary(), a.Summary)
		s.Equal([]string{tipPayOnTime, tipUtilization, tipLongHistory, tipFewerInquiries}, a.Tips)
	})

	s.Run("clean profile has no tips", func() {
		a := Assess(ApplicantProfile{PaymentNever, 20, 8, 0, 0})
		s.Empty(a.Tips)
		s.NotNil(a.Tips)
	})
}

func (s *EstimatorSuite) TestParsePaymentHistory() {
	cases := map[string]PaymentHistory{
		"never":              PaymentNever,
		"Never":              PaymentNever,
		" RARELY ":           PaymentRarely,
		"Rarely (1-2 times)": PaymentRarely,
		"often":              PaymentOften,
		"Often (3+ times)":   PaymentOften,
	}
	for in, want := range cases {
		got, err := ParsePaymentHistory(in)
		s.Require().NoError(err, in)
		s.Equal(want, got, in)
	}
	_, err := ParsePaymentHistory("sometimes")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *EstimatorSuite) TestValidate() {
	s.NoError(ApplicantProfile{PaymentNever, 0, 0, 0, 0}.Validate())
	s.NoError(ApplicantProfile{PaymentOften, 100, 20, 10, 10}.Validate())

	bad := []ApplicantProfile{
		{"", 10, 1, 1, 1},
		{PaymentNever, -1, 1, 1, 1},
		{PaymentNever, 101, 1, 1, 1},
		{PaymentNever, 10, 21, 1, 1},
		{PaymentNever, 10, 1, 11, 1},
		{PaymentNever, 10, 1, 1, -2},
	}
	for _, p := range bad {
		err := p.Validate()
		s.Error(err, "profile %+v", p)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	}
}
