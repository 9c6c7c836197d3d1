package core

// importer.go drives one import run: parse and validate a file, then write
// the valid rows.
//
// Row-level problems never stop a run. Invalid rows are skipped, failed
// writes are recorded per row, and the ImportResult always comes back. Only
// an EnvironmentError (the store is unreachable or the run's context ended)
// aborts the remaining rows.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// DefaultBatchSize is how many rows are processed between yields.
const DefaultBatchSize = 25

// maxTitleAttempts bounds the " (n)" suffix search for one title.
const maxTitleAttempts = 10000

// EnvironmentError aborts an import run. Rows before Processed were handled
// normally and are reflected in the partial result returned alongside it.
type EnvironmentError struct {
	Processed int
	Err       error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("import aborted after %d rows: %v", e.Processed, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// isEnvironmentFailure reports whether err affects the whole run.
func isEnvironmentFailure(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ImporterConfig configures NewImporter.
type ImporterConfig struct {
	MaxFileSize int64
	BatchSize   int
	Validator   ValidatorConfig
}

// Importer runs the parse/validate and write phases against a LocationStore.
type Importer struct {
	reader    *Reader
	validator *RowValidator
	store     LocationStore
	batchSize int
	yield     func()
	now       func() time.Time
}

// NewImporter creates an Importer. Zero config values use the defaults.
func NewImporter(store LocationStore, cfg ImporterConfig) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Importer{
		reader:    NewReader(cfg.MaxFileSize),
		validator: NewRowValidator(cfg.Validator, store),
		store:     store,
		batchSize: cfg.BatchSize,
		yield:     runtime.Gosched,
		now:       time.Now,
	}
}

// SetYield replaces the scheduling hook called after every batch.
func (im *Importer) SetYield(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	im.yield = fn
}

// Reader returns the importer's file reader.
func (im *Importer) Reader() *Reader {
	return im.reader
}

// ParseAndValidate parses in and validates every row. A *ParseError is
// returned for file-level problems; row problems live in the verdicts.
func (im *Importer) ParseAndValidate(ctx context.Context, in io.Reader) (*ValidatedBatch, error) {
	parsed, err := im.reader.Parse(in)
	if err != nil {
		return nil, err
	}
	return im.ValidateRows(ctx, parsed), nil
}

// ValidateRows validates already-parsed rows with the full batch title list.
func (im *Importer) ValidateRows(ctx context.Context, parsed *ParsedFile) *ValidatedBatch {
	titles := CountTitles(parsed.Rows)
	batch := &ValidatedBatch{
		Success:   true,
		Headers:   parsed.Headers,
		Rows:      make([]ValidatedRow, 0, len(parsed.Rows)),
		TotalRows: len(parsed.Rows),
	}
	for _, row := range parsed.Rows {
		verdict := im.validator.Validate(ctx, row, titles)
		if verdict.Valid {
			batch.ValidRows++
		} else {
			batch.InvalidRows++
		}
		batch.Rows = append(batch.Rows, ValidatedRow{Row: row, Verdict: verdict})
	}
	return batch
}

// Import writes the valid rows in order. The returned result is never nil;
// when err is an *EnvironmentError it holds everything processed so far.
func (im *Importer) Import(ctx context.Context, rows []ValidatedRow) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{
		Errors:      []RowError{},
		ImportedIDs: []string{},
	}

	for i, vr := range rows {
		if err := im.importRow(ctx, vr, result); err != nil {
			result.Duration = time.Since(start)
			slog.Error("import aborted",
				"processed", i,
				"success", result.Success,
				"error", err,
			)
			return result, &EnvironmentError{Processed: i, Err: err}
		}
		if (i+1)%im.batchSize == 0 {
			im.yield()
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// importRow handles one row. It only returns an error for environment
// failures; everything else is recorded in result.
func (im *Importer) importRow(ctx context.Context, vr ValidatedRow, result *ImportResult) error {
	title := vr.Title()

	if !vr.Verdict.Valid {
		result.Skipped++
		result.Errors = append(result.Errors, RowError{
			RowNumber: vr.Row.Number,
			Title:     title,
			Errors:    vr.Verdict.Errors,
			Warnings:  vr.Verdict.Warnings,
		})
		return nil
	}

	unique, err := im.uniqueTitle(ctx, title)
	if err == nil {
		var id string
		id, err = im.store.Create(ctx, MapRecord(vr.Row, unique, im.now()))
		if err == nil {
			result.Success++
			result.ImportedIDs = append(result.ImportedIDs, id)
			return nil
		}
	}
	if isEnvironmentFailure(err) {
		return err
	}

	result.Failed++
	result.Errors = append(result.Errors, RowError{
		RowNumber: vr.Row.Number,
		Title:     title,
		Errors:    []string{fmt.Sprintf("Failed to save location: %v", err)},
	})
	return nil
}

// uniqueTitle tries title, "title (2)", "title (3)", ... until the store
// reports one as free.
func (im *Importer) uniqueTitle(ctx context.Context, title string) (string, error) {
	for n := 1; n <= maxTitleAttempts; n++ {
		candidate := title
		if n > 1 {
			candidate = fmt.Sprintf("%s (%d)", title, n)
		}
		_, found, err := im.store.FindByTitle(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check title %q: %w", candidate, err)
		}
		if !found {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free title for %q after %d attempts", title, maxTitleAttempts)
}
