package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/JonMunkholm/fooddir/internal/store"
)

const sampleCSV = `Title,Street Address,City,State,ZIP,County,Services
Pantry A,1 Main St,Detroit,MI,48201,Wayne County,Food Pantry
,2 Main St,Detroit,MI,48201,Wayne County,Food Pantry
Kitchen B,3 Main St,Pontiac,MI,48342,Oakland County,Soup Kitchen
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	if os.Getenv("SQLITE_PATH") == "" {
		t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	path := writeFile(t, "locations.csv", sampleCSV)

	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "3 rows, 2 valid, 1 invalid") {
		t.Errorf("output missing summary: %s", out)
	}
	if !strings.Contains(out, "row 3 (untitled): error: Missing required field: Title") {
		t.Errorf("output missing row error: %s", out)
	}
}

func TestValidate_Strict(t *testing.T) {
	path := writeFile(t, "locations.csv", sampleCSV)

	_, err := run(t, "validate", "--strict", path)
	if !errors.Is(err, errInvalidRows) {
		t.Errorf("validate --strict error = %v, want errInvalidRows", err)
	}
}

func TestValidate_MissingColumns(t *testing.T) {
	path := writeFile(t, "locations.csv", "Title,City\nX,Detroit\n")

	_, err := run(t, "validate", path)
	if !errors.Is(err, core.ErrMissingColumns) {
		t.Errorf("error = %v, want ErrMissingColumns", err)
	}
}

func TestValidate_FileNotFound(t *testing.T) {
	_, err := run(t, "validate", filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, core.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "dry.db")
	t.Setenv("SQLITE_PATH", dbPath)
	path := writeFile(t, "locations.csv", sampleCSV)

	out, err := run(t, "import", path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "(dry run): 2 imported, 0 failed, 1 skipped") {
		t.Errorf("output = %s", out)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("dry run touched the database: %v", err)
	}
}

func TestImport_ApplyWithReport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "apply.db")
	t.Setenv("SQLITE_PATH", dbPath)
	path := writeFile(t, "locations.csv", sampleCSV)
	reportPath := filepath.Join(t.TempDir(), "errors.csv")

	out, err := run(t, "import", "--apply", "--report", reportPath, path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, "(applied): 2 imported") {
		t.Errorf("output = %s", out)
	}

	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer db.Close()
	if n, _ := db.Count(context.Background()); n != 2 {
		t.Errorf("stored = %d, want 2", n)
	}

	report, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "3,,Error,Missing required field: Title") {
		t.Errorf("report = %s", report)
	}
}

func TestTemplate(t *testing.T) {
	out, err := run(t, "template")
	if err != nil {
		t.Fatalf("template error = %v", err)
	}
	if !strings.HasPrefix(out, strings.Join(core.TemplateRows()[0], ",")) {
		t.Errorf("template does not start with headers: %.80s", out)
	}

	if _, err := run(t, "template", "--format", "pdf"); !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Errorf("pdf error = %v, want ErrUnsupportedFormat", err)
	}

	xlsxPath := filepath.Join(t.TempDir(), "template.xlsx")
	if _, err := run(t, "template", "--format", "xlsx", "-o", xlsxPath); err != nil {
		t.Fatalf("xlsx error = %v", err)
	}
	if info, err := os.Stat(xlsxPath); err != nil || info.Size() == 0 {
		t.Errorf("xlsx not written: %v", err)
	}
}
