package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func TestErrorAlert_Escapes(t *testing.T) {
	out := render(t, ErrorAlert(`<script>alert(1)</script>`, "Try again", "FILE002"))

	if strings.Contains(out, "<script>") {
		t.Errorf("message not escaped: %s", out)
	}
	if !strings.Contains(out, "Code: FILE002") {
		t.Errorf("missing code: %s", out)
	}
}

func TestImportPreview(t *testing.T) {
	p := &core.Preview{
		FileName:    "locations.csv",
		TotalRows:   2,
		ValidRows:   1,
		InvalidRows: 1,
		Rows: []core.ValidatedRow{
			{Row: core.RawRow{Number: 2, Values: map[string]string{core.HeaderTitle: "Good"}}, Verdict: core.Verdict{Valid: true}},
			{Row: core.RawRow{Number: 3, Values: map[string]string{core.HeaderTitle: "Bad"}}, Verdict: core.Verdict{Errors: []string{"Invalid ZIP code: 1 (must be exactly 5 digits)"}}},
		},
	}
	out := render(t, ImportPreview(p))

	for _, want := range []string{"locations.csv", "1 valid", "1 invalid", "Invalid ZIP code", "Import 1 locations"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q: %s", want, out)
		}
	}

	p.ValidRows = 0
	if out := render(t, ImportPreview(p)); strings.Contains(out, "hx-post") {
		t.Error("confirm button shown with no valid rows")
	}
}

func TestImportSummary(t *testing.T) {
	out := render(t, ImportSummary(&core.ImportResult{
		Success: 2,
		Skipped: 1,
		Errors:  []core.RowError{{RowNumber: 3, Title: "Bad & Co", Errors: []string{"Missing required field: City"}}},
	}))

	for _, want := range []string{"2 imported", "1 skipped", "Row 3 (Bad &amp; Co)", "/import/report"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q: %s", want, out)
		}
	}
}
