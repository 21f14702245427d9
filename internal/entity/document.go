package entity

// RawDocument is an uploaded source document as delivered by the transport
// collaborator: raw bytes plus the client-declared media type and original
// filename. It is owned by the request that created it and never mutated.
type RawDocument struct {
	Content   []byte
	Filename  string
	MediaType string
}

// ExtractedText is the outcome of the text extraction pipeline for one
// document. Method identifies the strategy that produced the text
// ("pdf-text" | "pdf-layer" | "image-ocr"); it is empty when every strategy
// failed, in which case Warning carries the diagnostic.
type ExtractedText struct {
	Text    string
	Method  string
	Warning string
}
