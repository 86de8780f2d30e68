package handler

import (
	"fmt"
	"strconv"
	"strings"

	"creditrisk/internal/scoring"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/validation"
	pkgvalidation "creditrisk/pkg/validation"
)

// EstimateRequest is the questionnaire body. Numeric fields are pointers so
// a missing field is reported instead of read as zero.
type EstimateRequest struct {
	PaymentHistory     string `json:"payment_history" validate:"required,notblank"`
	CreditUtilization  *int   `json:"credit_utilization" validate:"required,min=0,max=100"`
	CreditHistoryYears *int   `json:"credit_history_years" validate:"required,min=0,max=20"`
	ActiveLoans        *int   `json:"active_loans" validate:"required,min=0,max=10"`
	RecentInquiries    *int   `json:"recent_inquiries" validate:"required,min=0,max=10"`

	history scoring.PaymentHistory
}

func (r *EstimateRequest) Normalize() {
	r.PaymentHistory = strings.TrimSpace(r.PaymentHistory)
}

func (r *EstimateRequest) Validate() error {
	if err := pkgvalidation.Validate(r); err != nil {
		return err
	}
	history, err := scoring.ParsePaymentHistory(r.PaymentHistory)
	if err != nil {
		return err
	}
	r.history = history
	return nil
}

// Profile converts a validated request.
func (r *EstimateRequest) Profile() scoring.ApplicantProfile {
	return scoring.ApplicantProfile{
		PaymentHistory:     r.history,
		CreditUtilization:  *r.CreditUtilization,
		CreditHistoryYears: *r.CreditHistoryYears,
		ActiveLoans:        *r.ActiveLoans,
		RecentInquiries:    *r.RecentInquiries,
	}
}

// PredictRequest carries one applicant's fields keyed by column name.
// Values may be JSON strings, numbers or booleans.
type PredictRequest struct {
	Fields map[string]any `json:"fields" validate:"required,min=1"`

	fields map[string]string
}

func (r *PredictRequest) Validate() error {
	if err := pkgvalidation.Validate(r); err != nil {
		return err
	}
	if err := validation.CheckCount("fields", len(r.Fields), validation.MaxPredictFields); err != nil {
		return err
	}
	out := make(map[string]string, len(r.Fields))
	for name, v := range r.Fields {
		if err := validation.CheckStringLength("field name", name, validation.MaxColumnNameLength); err != nil {
			return err
		}
		switch v := v.(type) {
		case string:
			out[name] = v
		case float64:
			out[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[name] = strconv.FormatBool(v)
		default:
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("field %q must be a string, number or boolean", name))
		}
	}
	r.fields = out
	return nil
}

// Values returns the validated fields as strings.
func (r *PredictRequest) Values() map[string]string {
	return r.fields
}
