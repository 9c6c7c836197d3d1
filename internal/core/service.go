package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/fooddir/internal/config"
	"github.com/JonMunkholm/fooddir/internal/logging"
	"github.com/JonMunkholm/fooddir/internal/session"
	"github.com/google/uuid"
)

// Session keys for per-owner import state.
const (
	sessionKeyBatch  = "import_batch"
	sessionKeyResult = "import_result"
)

// Export formats accepted by Template and ErrorReport.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Download is a generated file ready to send.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Preview summarizes a validated upload before any write happens.
type Preview struct {
	FileName    string         `json:"file_name"`
	TotalRows   int            `json:"total_rows"`
	ValidRows   int            `json:"valid_rows"`
	InvalidRows int            `json:"invalid_rows"`
	Rows        []ValidatedRow `json:"preview"`
	Issues      []RowError     `json:"issues"` // Every row with errors or warnings
}

// Service is the entry point for the import pipeline and the directory.
// It keeps no state of its own between calls; per-user state lives in the
// session store.
type Service struct {
	store    Store
	importer *Importer
	sessions session.Store
	limiter  *ImportLimiter
	geocoder Geocoder
	cfg      *config.Config
}

// NewService wires a Service. geocoder may be nil to disable geocoding.
func NewService(store Store, sessions session.Store, geocoder Geocoder, cfg *config.Config) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	importer := NewImporter(store, ImporterConfig{
		MaxFileSize: cfg.Import.MaxFileSize,
		BatchSize:   cfg.Import.BatchSize,
		Validator:   ValidatorConfig{Counties: cfg.Import.Counties},
	})

	return &Service{
		store:    store,
		importer: importer,
		sessions: sessions,
		limiter:  NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		geocoder: geocoder,
		cfg:      cfg,
	}, nil
}

// Importer exposes the underlying pipeline.
func (s *Service) Importer() *Importer {
	return s.importer
}

// Upload parses and validates a file and stores the batch for owner,
// replacing any earlier upload and result.
func (s *Service) Upload(ctx context.Context, owner, fileName string, r io.Reader) (*ValidatedBatch, error) {
	if fileName == "" || r == nil {
		return nil, ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return nil, ErrUnsupportedFileType
	}

	start := time.Now()
	batch, err := s.importer.ParseAndValidate(ctx, r)
	if err != nil {
		logging.WithFields(ctx, "file", fileName).Warn("upload rejected", "error", err)
		return nil, err
	}
	batch.FileName = fileName

	s.sessions.Set(ctx, owner, sessionKeyBatch, batch, s.cfg.Session.TTL)
	s.sessions.Delete(ctx, owner, sessionKeyResult)

	logging.WithFields(ctx, "file", fileName).Info("upload validated",
		"total_rows", batch.TotalRows,
		"valid_rows", batch.ValidRows,
		"invalid_rows", batch.InvalidRows,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return batch, nil
}

func (s *Service) pendingBatch(ctx context.Context, owner string) (*ValidatedBatch, error) {
	v, ok := s.sessions.Get(ctx, owner, sessionKeyBatch)
	if !ok {
		return nil, ErrNoPendingImport
	}
	batch, ok := v.(*ValidatedBatch)
	if !ok {
		return nil, ErrNoPendingImport
	}
	return batch, nil
}

// Preview returns the counts, the first rows and every row with messages.
func (s *Service) Preview(ctx context.Context, owner string) (*Preview, error) {
	batch, err := s.pendingBatch(ctx, owner)
	if err != nil {
		return nil, err
	}

	n := s.cfg.Import.PreviewRows
	if n > len(batch.Rows) {
		n = len(batch.Rows)
	}

	p := &Preview{
		FileName:    batch.FileName,
		TotalRows:   batch.TotalRows,
		ValidRows:   batch.ValidRows,
		InvalidRows: batch.InvalidRows,
		Rows:        batch.Rows[:n],
		Issues:      []RowError{},
	}
	for _, vr := range batch.Rows {
		if len(vr.Verdict.Errors) == 0 && len(vr.Verdict.Warnings) == 0 {
			continue
		}
		p.Issues = append(p.Issues, RowError{
			RowNumber: vr.Row.Number,
			Title:     vr.Title(),
			Errors:    vr.Verdict.Errors,
			Warnings:  vr.Verdict.Warnings,
		})
	}
	return p, nil
}

// Confirm writes owner's pending batch. The batch is taken from the session
// before the run, so a repeated confirm finds nothing to write. The run is
// detached from the caller's cancellation and bounded by the import timeout,
// and its result is stored even when it aborts.
func (s *Service) Confirm(ctx context.Context, owner string) (*ImportResult, error) {
	v, ok := s.sessions.Take(ctx, owner, sessionKeyBatch)
	batch, isBatch := v.(*ValidatedBatch)
	if !ok || !isBatch {
		return nil, ErrNoPendingImport
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.restoreBatch(ctx, owner, batch)
		return nil, err
	}
	defer s.limiter.Release()

	importID := uuid.NewString()
	runCtx, cancel := context.WithTimeout(
		logging.ContextWithImportID(context.WithoutCancel(ctx), importID),
		s.cfg.Import.Timeout,
	)
	defer cancel()

	log := logging.WithFields(runCtx, "file", batch.FileName)
	log.Info("import started", "rows", len(batch.Rows))

	result, err := s.importer.Import(runCtx, batch.Rows)
	s.sessions.Set(ctx, owner, sessionKeyResult, result, s.cfg.Session.TTL)

	if err != nil {
		return result, err
	}
	log.Info("import completed",
		"success", result.Success,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// restoreBatch puts back a batch whose run never started, unless a newer
// upload has replaced it meanwhile.
func (s *Service) restoreBatch(ctx context.Context, owner string, batch *ValidatedBatch) {
	if _, err := s.pendingBatch(ctx, owner); err == nil {
		return
	}
	s.sessions.Set(ctx, owner, sessionKeyBatch, batch, s.cfg.Session.TTL)
}

// Results returns owner's last import result.
func (s *Service) Results(ctx context.Context, owner string) (*ImportResult, error) {
	v, ok := s.sessions.Get(ctx, owner, sessionKeyResult)
	if !ok {
		return nil, ErrNoResults
	}
	result, ok := v.(*ImportResult)
	if !ok {
		return nil, ErrNoResults
	}
	return result, nil
}

// ErrorReport renders owner's last result as a report download.
func (s *Service) ErrorReport(ctx context.Context, owner, format string) (*Download, error) {
	result, err := s.Results(ctx, owner)
	if err != nil {
		return nil, err
	}

	switch normalizeFormat(format) {
	case FormatCSV:
		data, err := GenerateErrorReport(result.Errors)
		if err != nil {
			return nil, err
		}
		return &Download{FileName: ReportFileName, ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatXLSX:
		data, err := GenerateErrorReportXLSX(result.Errors)
		if err != nil {
			return nil, err
		}
		return &Download{FileName: ReportXLSXFileName, ContentType: XLSXContentType, Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Template returns the import template download.
func (s *Service) Template(format string) (*Download, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		data, err := GenerateTemplate()
		if err != nil {
			return nil, err
		}
		return &Download{FileName: TemplateFileName, ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatXLSX:
		data, err := GenerateTemplateXLSX()
		if err != nil {
			return nil, err
		}
		return &Download{FileName: TemplateXLSXFileName, ContentType: XLSXContentType, Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatCSV
	}
	return f
}

// HealthStatus is reported by the health endpoint.
type HealthStatus struct {
	Locations int                 `json:"locations"`
	Imports   ImportLimiterStatus `json:"imports"`
	Geocoding bool                `json:"geocoding"`
}

// Health checks the store and reports limiter state.
func (s *Service) Health(ctx context.Context) (*HealthStatus, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count locations: %w", err)
	}
	return &HealthStatus{
		Locations: n,
		Imports:   s.limiter.Status(),
		Geocoding: s.geocoder != nil,
	}, nil
}

// ImportLimiterStatus returns the current limiter state.
func (s *Service) ImportLimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
