package core

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX download names and content type.
const (
	TemplateXLSXFileName = "food-resource-import-template.xlsx"
	ReportXLSXFileName   = "food-resource-import-errors.xlsx"
	XLSXContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GenerateTemplateXLSX renders TemplateRows as a workbook.
func GenerateTemplateXLSX() ([]byte, error) {
	return writeXLSX("Locations", TemplateRows())
}

// GenerateErrorReportXLSX renders ReportRows as a workbook.
func GenerateErrorReportXLSX(entries []RowError) ([]byte, error) {
	return writeXLSX("Import Errors", ReportRows(entries))
}

// writeXLSX writes rows to a single sheet with a bold, frozen header row.
// Every cell is written as text so ZIP codes keep their leading zeros.
func writeXLSX(sheet string, rows [][]string) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return nil, err
		}
		if err := wb.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("apply header style: %w", err)
		}
		if err := wb.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("freeze header: %w", err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
