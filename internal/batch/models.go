package batch

import (
	"context"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"creditrisk/internal/decision"
	dErrors "creditrisk/pkg/domain-errors"
)

// Output column names appended to every scored table.
const (
	ColumnProbability = "defaultProbability"
	ColumnRiskLabel   = "riskLabel"
)

// ProbabilityPrecision is the number of decimals written for probabilities.
const ProbabilityPrecision = 4

// Table is an ordered header plus rows of string cells. Every row has
// exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable checks the shape of columns and rows and returns the table.
//
// Errors: CodeValidation on an empty or duplicate column name or a row
// whose width differs from the header.
func NewTable(columns []string, rows [][]string) (Table, error) {
	t := Table{Columns: columns, Rows: rows}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Validate reports a malformed table.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return dErrors.New(dErrors.CodeValidation, "table has no columns")
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c == "" {
			return dErrors.New(dErrors.CodeValidation, "table has an empty column name")
		}
		if _, dup := seen[c]; dup {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("duplicate column %q", c))
		}
		seen[c] = struct{}{}
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), len(t.Columns)))
		}
	}
	return nil
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Clone returns a deep copy.
func (t Table) Clone() Table {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = slices.Clone(r)
	}
	return Table{Columns: slices.Clone(t.Columns), Rows: rows}
}

// Record is a read-only view of one row addressed by column name.
type Record struct {
	index   int
	columns map[string]int
	values  []string
}

// NewRecord builds a standalone record from a field map, for single
// applicant scoring outside a table.
func NewRecord(fields map[string]string) Record {
	columns := make(map[string]int, len(fields))
	values := make([]string, 0, len(fields))
	for k, v := range fields {
		columns[k] = len(values)
		values = append(values, v)
	}
	return Record{columns: columns, values: values}
}

// Index is the row position within its table; zero for standalone records.
func (r Record) Index() int { return r.index }

// Get returns the cell under column name.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.columns[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Len returns the number of cells.
func (r Record) Len() int { return len(r.values) }

// ProbabilityFunc returns the default probability for one record. It must
// not retain the record.
type ProbabilityFunc func(ctx context.Context, r Record) (float64, error)

// RowError is the failure of one row; it aborts the whole batch.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Score is the typed outcome of one row.
type Score struct {
	Probability float64            `json:"default_probability"`
	Label       decision.RiskLabel `json:"risk_label"`
}

// Result is a fully scored table. Table.Rows[i] and Scores[i] belong to
// input row i.
type Result struct {
	Table    Table
	Scores   []Score
	HighRisk int
}

// FormatProbability renders p with ProbabilityPrecision decimals.
func FormatProbability(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(ProbabilityPrecision)
}
