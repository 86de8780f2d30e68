package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"creditrisk/pkg/platform/sentinel"
)

func TestRunConcurrentSortsOutcomes(t *testing.T) {
	res := RunConcurrent(8, func(idx int) error {
		switch idx % 4 {
		case 0:
			return nil
		case 1:
			return fmt.Errorf("load: %w", sentinel.ErrNotFound)
		case 2:
			return fmt.Errorf("save: %w", sentinel.ErrUnavailable)
		default:
			return errors.New("boom")
		}
	})

	assert.Equal(t, &ConcurrentResult{Successes: 2, NotFounds: 2, Unavailable: 2, Errors: 2}, res)
	assert.Equal(t, int32(8), res.Total())
}
