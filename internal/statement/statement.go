// Package statement parses tabular statement text into typed transactions.
// The expected columns are Date, Type, Category, Description and Amount, with
// tolerant header matching; see DetectHeader.
package statement

import (
	"errors"

	"github.com/finsight-app/finsight/internal/entity"
)

// ErrNoValidRows is returned when a header was found but every data line was
// dropped during validation.
var ErrNoValidRows = errors.New("no valid rows found")

// Parse extracts all valid transactions from statement text. The returned
// error is one of ErrHeaderNotFound, *MissingColumnsError or ErrNoValidRows;
// all three are user-facing diagnostics, not crashes.
func Parse(text string) ([]entity.Transaction, error) {
	lines := normalizeLines(text)
	hm, err := DetectHeader(lines)
	if err != nil {
		return nil, err
	}
	rows := ParseRows(lines[hm.Line+1:], hm)
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	return rows, nil
}
