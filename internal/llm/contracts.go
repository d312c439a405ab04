package llm

import "context"

// Record is one extracted fact: a label found in the document, the text
// associated with it (original wording preserved), and optional surrounding
// context that is not the value itself.
type Record struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Comments string `json:"comments,omitempty"`
}

// ExtractionResult is the ordered collection of records returned for one
// document. Order follows the model's output order; nothing re-sorts it.
type ExtractionResult struct {
	Entries []Record `json:"entries"`
}

type ExtractRequest struct {
	// Text is the concatenated page text of the document. It is the only
	// variable input to the model call.
	Text string
}

// RecordExtractor is the interface the pipeline depends on.
type RecordExtractor interface {
	ExtractRecords(ctx context.Context, req ExtractRequest) (ExtractionResult, []byte /*rawJSON*/, error)
}
