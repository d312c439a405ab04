package pdftext

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docstruct/doc-structurer/internal/common"
)

// PageSeparator is appended after every page's text when pages are joined
// into a single document string.
const PageSeparator = "\n"

// Extractor turns PDF bytes into plain text, page by page. It is a pure
// transformation: no files are written and nothing is kept between calls.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractPages returns the visible text of every page, in page order. Pages
// with no extractable text contribute an empty string at their position;
// there is no OCR fallback. A document that cannot be parsed as a PDF
// (corrupt stream, encrypted, zero pages) fails with common.ErrExtraction.
func (e *Extractor) ExtractPages(data []byte) ([]string, error) {
	start := time.Now()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", common.ErrExtraction)
	}

	// Structural pass first: pdfcpu gives far better diagnostics for
	// corrupt or encrypted input than the text extractor does.
	pageCount, err := e.validate(data)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: document has zero pages", common.ErrExtraction)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Error("pdftext.extract.open_error", "error", err, "bytes", len(data))
		return nil, fmt.Errorf("%w: open pdf: %v", common.ErrExtraction, err)
	}

	pages := make([]string, 0, reader.NumPage())
	empty := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			empty++
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// Keep the page position; the document string must stay
			// aligned with the page order.
			e.logger.Warn("pdftext.extract.page_error", "page", pageNum, "error", err)
			pages = append(pages, "")
			empty++
			continue
		}
		if strings.TrimSpace(content) == "" {
			empty++
		}
		pages = append(pages, content)
	}

	e.logger.Info("pdftext.extract.ok",
		"pages", len(pages),
		"empty_pages", empty,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

// ExtractText returns the concatenated text of all pages, each page's text
// followed by PageSeparator, in page order.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	pages, err := e.ExtractPages(data)
	if err != nil {
		return "", err
	}
	return JoinPages(pages), nil
}

// JoinPages builds the document string from per-page text: N pages yield
// exactly N separator-terminated segments.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString(PageSeparator)
	}
	return b.String()
}

// validate runs the pdfcpu structural pass and returns the page count.
func (e *Extractor) validate(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		e.logger.Error("pdftext.validate.read_error", "error", err, "bytes", len(data))
		return 0, fmt.Errorf("%w: not a readable pdf: %v", common.ErrExtraction, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		e.logger.Error("pdftext.validate.page_count_error", "error", err)
		return 0, fmt.Errorf("%w: page count: %v", common.ErrExtraction, err)
	}
	return ctx.PageCount, nil
}
