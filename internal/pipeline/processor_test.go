package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docstruct/doc-structurer/internal/common"
	"github.com/docstruct/doc-structurer/internal/export"
	"github.com/docstruct/doc-structurer/internal/llm"
)

type stubText struct {
	text string
	err  error
}

func (s *stubText) ExtractText(data []byte) (string, error) {
	return s.text, s.err
}

type stubExtractor struct {
	result   llm.ExtractionResult
	err      error
	calls    int
	lastText string
}

func (s *stubExtractor) ExtractRecords(ctx context.Context, req llm.ExtractRequest) (llm.ExtractionResult, []byte, error) {
	s.calls++
	s.lastText = req.Text
	if s.err != nil {
		return llm.ExtractionResult{}, nil, s.err
	}
	return s.result, []byte("{}"), nil
}

func TestProcessTwoPageScenario(t *testing.T) {
	text := &stubText{text: "Name: Alice\nRole: Engineer\n"}
	records := &stubExtractor{result: llm.ExtractionResult{Entries: []llm.Record{
		{Key: "Name", Value: "Alice"},
		{Key: "Role", Value: "Engineer"},
	}}}
	p := NewProcessor(nil, text, records, export.NewService(nil))

	res, err := p.Process(context.Background(), []byte("%PDF-stub"))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 1, records.calls)
	assert.Equal(t, "Name: Alice\nRole: Engineer\n", records.lastText)
	require.Len(t, res.Records, 2)

	f, err := excelize.OpenReader(bytes.NewReader(res.XLSX))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Headers, rows[0])
	assert.Equal(t, []string{"Name", "Alice"}, rows[1][:2])
	assert.Equal(t, []string{"Role", "Engineer"}, rows[2][:2])
}

func TestProcessBlankDocumentStillCallsClient(t *testing.T) {
	text := &stubText{text: " \n \n"}
	records := &stubExtractor{result: llm.ExtractionResult{}}
	p := NewProcessor(nil, text, records, export.NewService(nil))

	res, err := p.Process(context.Background(), []byte("%PDF-stub"))
	require.NoError(t, err)
	assert.Equal(t, 1, records.calls, "whitespace-only text must not short-circuit the model call")
	assert.Empty(t, res.Records)
	assert.NotEmpty(t, res.XLSX, "empty record list still renders a header-only workbook")
}

func TestProcessExtractionFailureAborts(t *testing.T) {
	text := &stubText{err: fmt.Errorf("%w: corrupt stream", common.ErrExtraction)}
	records := &stubExtractor{}
	p := NewProcessor(nil, text, records, export.NewService(nil))

	res, err := p.Process(context.Background(), []byte("junk"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.Nil(t, res)
	assert.Equal(t, 0, records.calls)
}

func TestProcessClientFailureProducesNoSpreadsheet(t *testing.T) {
	text := &stubText{text: "Name: Alice\n"}
	records := &stubExtractor{err: fmt.Errorf("%w: provider unreachable", common.ErrExtractionClient)}
	p := NewProcessor(nil, text, records, export.NewService(nil))

	res, err := p.Process(context.Background(), []byte("%PDF-stub"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtractionClient)
	assert.Nil(t, res, "no partial result when the model call fails")
}
