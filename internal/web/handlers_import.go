package web

// handlers_import.go serves the two-phase CSV import: upload and validate,
// review the preview, confirm, then read back results and the error report.

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/JonMunkholm/fooddir/internal/logging"
	"github.com/JonMunkholm/fooddir/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size for form framing.
const multipartOverhead = 1 << 20

// UploadResponse is the JSON reply to a successful upload.
type UploadResponse struct {
	OK          bool   `json:"ok"`
	FileName    string `json:"file_name"`
	TotalRows   int    `json:"total_rows"`
	ValidRows   int    `json:"valid_rows"`
	InvalidRows int    `json:"invalid_rows"`
}

// ConfirmResponse is the JSON reply to a confirmed import.
type ConfirmResponse struct {
	OK      bool   `json:"ok"`
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// handleUpload validates an uploaded CSV and keeps it for review.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.respondError(w, r, &core.ParseError{Kind: core.ErrFileTooLarge, Limit: maxSize}, 0)
			return
		}
		s.respondError(w, r, core.ErrNoFile, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile, 0)
		return
	}
	defer file.Close()

	owner := core.OwnerFromContext(r.Context())
	batch, err := s.service.Upload(r.Context(), owner, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		preview, err := s.service.Preview(r.Context(), owner)
		if err != nil {
			s.respondError(w, r, err, 0)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ImportPreview(preview).Render(r.Context(), w)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		OK:          true,
		FileName:    batch.FileName,
		TotalRows:   batch.TotalRows,
		ValidRows:   batch.ValidRows,
		InvalidRows: batch.InvalidRows,
	})
}

// handlePreview returns the pending upload's counts and annotated rows.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := s.service.Preview(r.Context(), core.OwnerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ImportPreview(preview).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleConfirm writes the pending upload. An aborted run still reports the
// rows handled before it stopped.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Confirm(r.Context(), core.OwnerFromContext(r.Context()))

	var envErr *core.EnvironmentError
	if err != nil && (result == nil || !errors.As(err, &envErr)) {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			msg := core.MapError(err)
			w.WriteHeader(statusFor(err))
			templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
		}
		templates.ImportSummary(result).Render(r.Context(), w)
		return
	}

	resp := ConfirmResponse{
		OK:      err == nil,
		Success: result.Success,
		Failed:  result.Failed,
		Skipped: result.Skipped,
	}
	status := http.StatusOK
	if err != nil {
		msg := core.MapError(err)
		resp.Error = msg.Message
		resp.Code = msg.Code
		status = statusFor(err)
		logging.FromContext(r.Context()).Error("import aborted",
			"error", err,
			"success", result.Success,
			"failed", result.Failed,
		)
	}
	writeJSON(w, status, resp)
}

// handleResults returns the session's last import result.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Results(r.Context(), core.OwnerFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.ImportSummary(result).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTemplate downloads the import template (?format=csv|xlsx).
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	dl, err := s.service.Template(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeDownload(w, dl)
}

// handleReport downloads the last result's error report (?format=csv|xlsx).
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	dl, err := s.service.ErrorReport(r.Context(), core.OwnerFromContext(r.Context()), r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeDownload(w, dl)
}

func writeDownload(w http.ResponseWriter, dl *core.Download) {
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, dl.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.Write(dl.Data)
}
