package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/docstruct/doc-structurer/internal/common"
	"github.com/docstruct/doc-structurer/internal/llm"
)

const (
	// SheetName is the single sheet every workbook carries.
	SheetName = "Extracted Data"

	headerFill = "4F81BD"

	keyColWidth      = 30
	valueColWidth    = 50
	commentsColWidth = 40
)

// Headers is the fixed column order of the output workbook.
var Headers = []string{"key", "value", "comments"}

// Service produces XLSX bytes from extraction results. It holds no state
// beyond a logger; identical input always yields identical cell values and
// styling.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RenderXLSX returns a single-sheet workbook: styled header row followed by
// one row per record in input order. An empty result renders a header-only
// sheet, which is not an error.
func (s *Service) RenderXLSX(result llm.ExtractionResult) ([]byte, error) {
	start := time.Now()

	rows := make([][]string, 0, len(result.Entries))
	for _, r := range result.Entries {
		rows = append(rows, []string{r.Key, r.Value, r.Comments})
	}
	buf, err := s.renderRows(rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"bytes", len(buf),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}

// renderRows writes the header plus the given body rows. Every row must
// match the three-column layout.
func (s *Service) renderRows(rows [][]string) ([]byte, error) {
	for i, row := range rows {
		if len(row) != len(Headers) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", common.ErrRender, i, len(row), len(Headers))
		}
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	// Rename the default sheet so the workbook has exactly one.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("%w: name sheet: %v", common.ErrRender, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: header style: %v", common.ErrRender, err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: body style: %v", common.ErrRender, err)
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if err := f.SetCellStyle(SheetName, "A1", "C1", headerStyle); err != nil {
		return nil, fmt.Errorf("%w: style header: %v", common.ErrRender, err)
	}

	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(SheetName, cell, v)
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(Headers), len(rows)+1)
		if err := f.SetCellStyle(SheetName, "A2", last, bodyStyle); err != nil {
			return nil, fmt.Errorf("%w: style body: %v", common.ErrRender, err)
		}
	}

	// Fixed, content-independent widths.
	_ = f.SetColWidth(SheetName, "A", "A", keyColWidth)
	_ = f.SetColWidth(SheetName, "B", "B", valueColWidth)
	_ = f.SetColWidth(SheetName, "C", "C", commentsColWidth)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx write: %v", common.ErrRender, err)
	}
	return buf.Bytes(), nil
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}
