package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestGenerateTemplate_RoundTrip(t *testing.T) {
	data, err := GenerateTemplate()
	if err != nil {
		t.Fatalf("GenerateTemplate() error = %v", err)
	}

	im := NewImporter(newFakeStore(), ImporterConfig{})
	batch, err := im.ParseAndValidate(context.Background(), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseAndValidate(template) error = %v", err)
	}

	if batch.TotalRows != len(templateExamples) {
		t.Errorf("TotalRows = %d, want %d", batch.TotalRows, len(templateExamples))
	}
	if batch.ValidRows != batch.TotalRows || batch.InvalidRows != 0 {
		for _, r := range batch.Rows {
			if !r.Verdict.Valid {
				t.Logf("row %d errors: %q", r.Row.Number, r.Verdict.Errors)
			}
		}
		t.Errorf("valid/invalid = %d/%d, want %d/0", batch.ValidRows, batch.InvalidRows, batch.TotalRows)
	}
}

func TestGenerateTemplate_Layout(t *testing.T) {
	data, err := GenerateTemplate()
	if err != nil {
		t.Fatalf("GenerateTemplate() error = %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("read template: %v", err)
	}

	if !reflect.DeepEqual(records[0], TemplateHeaders()) {
		t.Errorf("header = %q, want %q", records[0], TemplateHeaders())
	}
	if got := len(records[0]); got != 34 {
		t.Errorf("column count = %d, want 34", got)
	}

	// The second example is closed on Tuesday, so its times are blank.
	headers := records[0]
	second := records[2]
	for i, h := range headers {
		switch h {
		case DayOpenHeader("Tuesday"):
			if second[i] != "FALSE" {
				t.Errorf("%s = %q, want FALSE", h, second[i])
			}
		case DayOpenTimeHeader("Tuesday"), DayCloseTimeHeader("Tuesday"):
			if second[i] != "" {
				t.Errorf("%s = %q, want blank", h, second[i])
			}
		}
	}
}

func TestGenerateTemplateXLSX(t *testing.T) {
	data, err := GenerateTemplateXLSX()
	if err != nil {
		t.Fatalf("GenerateTemplateXLSX() error = %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Locations")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != len(TemplateRows()) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(TemplateRows()))
	}
	if !reflect.DeepEqual(rows[0], TemplateHeaders()) {
		t.Errorf("header = %q, want %q", rows[0], TemplateHeaders())
	}
	if got := rows[1][0]; got != "Eastside Community Pantry" {
		t.Errorf("first title = %q", got)
	}
}
