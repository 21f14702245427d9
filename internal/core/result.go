package core

import "github.com/finsight-app/finsight/internal/entity"

// UploadResult is the envelope returned for a receipt upload. Suggestions is
// nil when extraction produced no usable text; Warning carries any demoted
// extraction failure.
type UploadResult struct {
	Message     string                  `json:"message"`
	Suggestions *entity.FieldSuggestion `json:"suggestions"`
	RawText     string                  `json:"rawText"`
	Warning     string                  `json:"warning,omitempty"`
}

// ImportResult summarizes a statement import.
type ImportResult struct {
	Inserted int `json:"inserted"`
}
