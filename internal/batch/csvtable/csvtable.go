// Package csvtable reads and writes batch tables as CSV with a header row.
package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"creditrisk/internal/batch"
	dErrors "creditrisk/pkg/domain-errors"
	"creditrisk/pkg/platform/validation"
)

// ContentType is the media type of encoded tables.
const ContentType = "text/csv"

const utf8BOM = "\uFEFF"

// Decode parses a header line followed by data rows. Header names are trimmed;
// data cells are kept as written. maxRows <= 0 means
// validation.DefaultMaxBatchRows.
//
// Errors:
//   - CodeValidation for an empty input, a malformed or ragged row, or a bad header
//   - CodeTooLarge when rows or columns exceed their limits
func Decode(r io.Reader, maxRows int) (batch.Table, error) {
	if maxRows <= 0 {
		maxRows = validation.DefaultMaxBatchRows
	}
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return batch.Table{}, dErrors.New(dErrors.CodeValidation, "csv input is empty")
	}
	if err != nil {
		return batch.Table{}, wrapParseError(err)
	}
	if err := validation.CheckCount("columns", len(header), validation.MaxColumns); err != nil {
		return batch.Table{}, err
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}
	if err := validation.CheckEachStringLength("column name", header, validation.MaxColumnNameLength); err != nil {
		return batch.Table{}, err
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return batch.Table{}, wrapParseError(err)
		}
		if err := validation.CheckCount("rows", len(rows)+1, maxRows); err != nil {
			return batch.Table{}, err
		}
		rows = append(rows, rec)
	}
	return batch.NewTable(header, rows)
}

func wrapParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return dErrors.Wrap(err, dErrors.CodeValidation,
			fmt.Sprintf("malformed csv at line %d: %v", pe.Line, pe.Err))
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read csv input")
}

// Encode writes the header and every row of t.
func Encode(w io.Writer, t batch.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// Marshal encodes t into a byte slice.
func Marshal(t batch.Table) ([]byte, error) {
	var sb strings.Builder
	if err := Encode(&sb, t); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
