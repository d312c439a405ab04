package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/docstruct/doc-structurer/internal/llm"
)

// TextExtractor is the first stage: PDF bytes to the document string.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// Renderer is the last stage: records to workbook bytes.
type Renderer interface {
	RenderXLSX(result llm.ExtractionResult) ([]byte, error)
}

// Result is everything one invocation produces. Nothing outlives the call.
type Result struct {
	Text    string
	Records []llm.Record
	XLSX    []byte
}

// Processor coordinates text extraction, the model call, and rendering.
// The three stages run strictly in sequence; the first failure aborts the
// run and no partial result escapes.
type Processor struct {
	Logger  *slog.Logger
	Text    TextExtractor
	Records llm.RecordExtractor
	Render  Renderer
}

func NewProcessor(logger *slog.Logger, text TextExtractor, records llm.RecordExtractor, render Renderer) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Records: records, Render: render}
}

// Process runs the full pipeline for one document. A whitespace-only
// document still reaches the model; an empty record list still renders a
// header-only workbook.
func (p *Processor) Process(ctx context.Context, pdfBytes []byte) (*Result, error) {
	runID := uuid.New().String()
	start := time.Now()

	text, err := p.Text.ExtractText(pdfBytes)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "run_id", runID, "err", err)
		return nil, err
	}
	p.Logger.Info("processor.extract.ok", "run_id", runID, "text_len", len(text))

	result, _, err := p.Records.ExtractRecords(ctx, llm.ExtractRequest{Text: text})
	if err != nil {
		p.Logger.Error("processor.llm.failed", "run_id", runID, "err", err)
		return nil, err
	}
	p.Logger.Info("processor.llm.ok", "run_id", runID, "records", len(result.Entries))

	xlsx, err := p.Render.RenderXLSX(result)
	if err != nil {
		p.Logger.Error("processor.render.failed", "run_id", runID, "err", err)
		return nil, err
	}

	p.Logger.Info("processor.ok",
		"run_id", runID,
		"records", len(result.Entries),
		"xlsx_bytes", len(xlsx),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Result{Text: text, Records: result.Entries, XLSX: xlsx}, nil
}
