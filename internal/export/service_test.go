package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docstruct/doc-structurer/internal/common"
	"github.com/docstruct/doc-structurer/internal/llm"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRenderXLSX(t *testing.T) {
	svc := NewService(nil)

	result := llm.ExtractionResult{Entries: []llm.Record{
		{Key: "Name", Value: "Alice"},
		{Key: "Role", Value: "Engineer", Comments: "from the header"},
		{Key: "Notes", Value: "multi\nline value", Comments: ""},
	}}

	data, err := svc.RenderXLSX(result)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f := openWorkbook(t, data)

	// Exactly one sheet with the expected name.
	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	// K records -> K+1 populated rows.
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, len(result.Entries)+1)

	// Header row in fixed column order.
	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue(SheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	// Cell values round-trip losslessly.
	for i, rec := range result.Entries {
		for j, want := range []string{rec.Key, rec.Value, rec.Comments} {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			got, err := f.GetCellValue(SheetName, cell)
			require.NoError(t, err)
			assert.Equalf(t, want, got, "cell %s", cell)
		}
	}

	// Fixed column widths.
	for col, want := range map[string]float64{"A": keyColWidth, "B": valueColWidth, "C": commentsColWidth} {
		w, err := f.GetColWidth(SheetName, col)
		require.NoError(t, err)
		assert.InDelta(t, want, w, 0.01)
	}
}

func TestRenderXLSXEmptyResult(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.RenderXLSX(llm.ExtractionResult{})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Headers, rows[0])
}

func TestRenderXLSXIdempotent(t *testing.T) {
	svc := NewService(nil)
	result := llm.ExtractionResult{Entries: []llm.Record{
		{Key: "Name", Value: "Alice"},
		{Key: "Role", Value: "Engineer"},
	}}

	first, err := svc.RenderXLSX(result)
	require.NoError(t, err)
	second, err := svc.RenderXLSX(result)
	require.NoError(t, err)

	rowsA, err := openWorkbook(t, first).GetRows(SheetName)
	require.NoError(t, err)
	rowsB, err := openWorkbook(t, second).GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, rowsA, rowsB)
}

func TestRenderRowsColumnGuard(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.renderRows([][]string{{"only", "two"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRender)
	assert.Contains(t, err.Error(), "columns")
}
