package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "creditrisk/pkg/domain-errors"
)

type sample struct {
	Name    string `json:"name" validate:"required,notblank"`
	Percent *int   `json:"percent" validate:"required,min=0,max=100"`
	Kind    string `json:"kind" validate:"omitempty,oneof=a b"`
}

type ValidationSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationSuite))
}

func intPtr(v int) *int { return &v }

func (s *ValidationSuite) TestMessagesUseJSONNames() {
	cases := []struct {
		name string
		in   sample
		want string
	}{
		{"required", sample{Percent: intPtr(5)}, "name is required"},
		{"blank", sample{Name: "  ", Percent: intPtr(5)}, "name must not be blank"},
		{"missing pointer", sample{Name: "x"}, "percent is required"},
		{"below min", sample{Name: "x", Percent: intPtr(-1)}, "percent must be at least 0"},
		{"above max", sample{Name: "x", Percent: intPtr(101)}, "percent must be at most 100"},
		{"oneof", sample{Name: "x", Percent: intPtr(1), Kind: "c"}, "kind must be one of [a b]"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := Validate(tc.in)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Equal(tc.want, err.Error())
		})
	}
}

func (s *ValidationSuite) TestValidPasses() {
	s.NoError(Validate(sample{Name: "x", Percent: intPtr(0), Kind: "b"}))
}

func (s *ValidationSuite) TestNonValidatorError() {
	s.Equal("invalid request body", ErrorMessage(errors.New("other")))
}
