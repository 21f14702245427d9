package entity

import (
	"time"

	"github.com/finsight-app/finsight/constants"
)

// Transaction represents one parsed financial record for data transfer
// between layers. Dates are stored at midnight UTC to match DATE semantics.
type Transaction struct {
	Date        time.Time        `json:"date"`
	Type        constants.TxType `json:"type"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	Source      string           `json:"source"`
}

// FieldSuggestion is a best-effort guess at a single record derived from
// freeform receipt text, intended for human confirmation before storage.
// Amount is nil when no candidate was found; Date falls back to the upload
// time when unrecoverable.
type FieldSuggestion struct {
	Type     constants.TxType `json:"type"`
	Amount   *float64         `json:"amount"`
	Date     time.Time        `json:"date"`
	Category string           `json:"category"`
}
