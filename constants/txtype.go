package constants

import "strings"

// TxType is the direction of a transaction.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// Source provenance for stored transactions.
const (
	SourceManual = "manual"
	SourceOCR    = "ocr"
	SourcePDF    = "pdf"
)

// DefaultCategory is applied when a document carries no category information.
const DefaultCategory = "General"

var nonLetters = func(r rune) rune {
	if r < 'a' || r > 'z' {
		return -1
	}
	return r
}

// ParseTxType maps a raw token to a TxType. The token is lowercased and
// reduced to letters before matching; anything containing "income" or
// "expense", or the literals "inc"/"exp", is accepted.
func ParseTxType(raw string) (TxType, bool) {
	tok := strings.Map(nonLetters, strings.ToLower(raw))
	switch {
	case strings.Contains(tok, "income"), tok == "inc":
		return Income, true
	case strings.Contains(tok, "expense"), tok == "exp":
		return Expense, true
	}
	return "", false
}
