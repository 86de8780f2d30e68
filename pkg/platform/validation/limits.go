package validation

import (
	"fmt"

	dErrors "creditrisk/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed JSON request body size (64 KB).
	MaxBodySize = 64 * 1024

	// DefaultMaxUploadSize is the default cap on a batch CSV upload (8 MiB).
	DefaultMaxUploadSize = 8 << 20
)

// Table shape limits
const (
	// DefaultMaxBatchRows is the default maximum number of rows in one batch.
	DefaultMaxBatchRows = 10_000

	// MaxColumns is the maximum number of columns in a batch table.
	MaxColumns = 200

	// MaxColumnNameLength is the maximum length of a column header.
	MaxColumnNameLength = 128

	// MaxPredictFields is the maximum number of fields in a single predict request.
	MaxPredictFields = MaxColumns
)

// CheckCount validates that a count does not exceed max. The error carries
// CodeTooLarge so transports can answer 413.
func CheckCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeTooLarge, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if err := CheckStringLength(fieldName, v, max); err != nil {
			return err
		}
	}
	return nil
}
