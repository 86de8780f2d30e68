package csvtable

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/batch"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/tracer"
)

func TestDecode(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		in := "\uFEFFid, credit_utilization\n1,20\n2,75\n"
		table, err := Decode(strings.NewReader(in), 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "credit_utilization"}, table.Columns)
		assert.Equal(t, [][]string{{"1", "20"}, {"2", "75"}}, table.Rows)
	})

	t.Run("header only", func(t *testing.T) {
		table, err := Decode(strings.NewReader("a,b\n"), 10)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	tests := []struct {
		name string
		in   string
		code dErrors.Code
	}{
		{"empty input", "", dErrors.CodeValidation},
		{"ragged row", "a,b\n1,2\n3\n", dErrors.CodeValidation},
		{"duplicate header", "a,a\n1,2\n", dErrors.CodeValidation},
		{"bare quote", "a,b\n1,\"2\n", dErrors.CodeValidation},
		{"too many rows", "a\n1\n2\n3\n", dErrors.CodeTooLarge},
		{"long column name", strings.Repeat("x", 200) + "\n1\n", dErrors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in), 2)
			require.Error(t, err)
			assert.Equal(t, tt.code, dErrors.CodeOf(err))
		})
	}
}

func TestEncode(t *testing.T) {
	table := batch.Table{
		Columns: []string{"name", "note"},
		Rows:    [][]string{{"a", "has, comma"}, {"b", ""}},
	}
	var sb strings.Builder
	require.NoError(t, Encode(&sb, table))
	assert.Equal(t, "name,note\na,\"has, comma\"\nb,\n", sb.String())
}

func TestScoredRoundTripKeepsColumnOrder(t *testing.T) {
	in := "zeta,alpha,mid\nz1,a1,m1\nz2,a2,m2\n"
	table, err := Decode(strings.NewReader(in), 0)
	require.NoError(t, err)

	scorer := batch.NewScorer(batch.WithTracer(tracer.NewNoop()))
	res, err := scorer.Score(context.Background(), table, func(_ context.Context, r batch.Record) (float64, error) {
		return 0.75, nil
	})
	require.NoError(t, err)

	out, err := Marshal(res.Table)
	require.NoError(t, err)
	assert.Equal(t,
		"zeta,alpha,mid,defaultProbability,riskLabel\n"+
			"z1,a1,m1,0.7500,High Risk\n"+
			"z2,a2,m2,0.7500,High Risk\n",
		string(out))
}

func TestDecodeKeepsCellWhitespace(t *testing.T) {
	in := "name, note\n Alice,  two spaces\n"
	table, err := Decode(strings.NewReader(in), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "note"}, table.Columns)
	assert.Equal(t, [][]string{{" Alice", "  two spaces"}}, table.Rows)

	out, err := Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, "name,note\n Alice,  two spaces\n", string(out))
}
