package core

// reader.go turns an uploaded file into header-keyed rows.
//
// Parsing is all-or-nothing: any file-level problem returns a *ParseError and
// no rows. Within a valid file, blank rows are dropped and every kept row
// carries the line number where its record starts in the source.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaxFileSize is the import size ceiling (5 MiB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Parse failure kinds. Match with errors.Is on a *ParseError.
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnreadableHeader = errors.New("unreadable header")
	ErrMissingColumns   = errors.New("missing required columns")
	ErrMalformedCSV     = errors.New("invalid csv")
	ErrFileNotFound     = errors.New("file not found")
)

// ParseError is a file-level failure. It is fatal for the whole import.
type ParseError struct {
	Kind    error    // One of the Err* kinds above
	Missing []string // Set for ErrMissingColumns
	Limit   int64    // Set for ErrFileTooLarge
	Line    int      // Set for ErrMalformedCSV
	Err     error    // Underlying cause, if any
}

func (e *ParseError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrFileTooLarge):
		if e.Limit < 1024*1024 {
			return fmt.Sprintf("file too large: exceeds the %d byte limit", e.Limit)
		}
		return fmt.Sprintf("file too large: exceeds the %d MB limit", e.Limit/(1024*1024))
	case errors.Is(e.Kind, ErrMissingColumns):
		return fmt.Sprintf("Missing required columns: %s", strings.Join(e.Missing, ", "))
	case errors.Is(e.Kind, ErrMalformedCSV) && e.Line > 0:
		return fmt.Sprintf("invalid csv at line %d: %v", e.Line, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Reader parses import files against a required-header list.
type Reader struct {
	maxBytes int64
	required []string
}

// NewReader creates a Reader. A non-positive maxBytes uses DefaultMaxFileSize.
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileSize
	}
	return &Reader{maxBytes: maxBytes, required: RequiredHeaders}
}

// MaxBytes returns the configured size ceiling.
func (r *Reader) MaxBytes() int64 {
	return r.maxBytes
}

// ReadFile opens path and parses it. The size ceiling is checked against the
// file's size before anything is read.
func (r *Reader) ReadFile(path string) (*ParsedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ParseError{Kind: ErrFileNotFound, Err: err}
		}
		return nil, &ParseError{Kind: ErrUnreadableHeader, Err: err}
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > r.maxBytes {
		return nil, &ParseError{Kind: ErrFileTooLarge, Limit: r.maxBytes}
	}
	return r.Parse(f)
}

// Parse reads at most the size ceiling from in and decodes it.
func (r *Reader) Parse(in io.Reader) (*ParsedFile, error) {
	data, err := io.ReadAll(io.LimitReader(in, r.maxBytes+1))
	if err != nil {
		return nil, &ParseError{Kind: ErrUnreadableHeader, Err: err}
	}
	if int64(len(data)) > r.maxBytes {
		return nil, &ParseError{Kind: ErrFileTooLarge, Limit: r.maxBytes}
	}
	return r.decode(data)
}

func (r *Reader) decode(data []byte) (*ParsedFile, error) {
	cr := csv.NewReader(NewImportReader(bytes.NewReader(data)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	record, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			err = errors.New("file is empty")
		}
		return nil, &ParseError{Kind: ErrUnreadableHeader, Err: err}
	}

	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.TrimSpace(h)
	}
	if missing := missingColumns(headers, r.required); len(missing) > 0 {
		return nil, &ParseError{Kind: ErrMissingColumns, Missing: missing}
	}

	var rows []RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.StartLine
			}
			return nil, &ParseError{Kind: ErrMalformedCSV, Line: line, Err: err}
		}
		if isBlankRecord(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, RawRow{Number: line, Values: rowValues(headers, record)})
	}

	return &ParsedFile{Headers: headers, Rows: rows}, nil
}

// rowValues maps headers to cleaned cells. Short rows map to "" and the first
// of any duplicated header wins.
func rowValues(headers, record []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if _, dup := values[h]; dup {
			continue
		}
		if i < len(record) {
			values[h] = cleanCell(record[i])
		} else {
			values[h] = ""
		}
	}
	return values
}

func missingColumns(headers, required []string) []string {
	present := newStringSet(headers)
	var missing []string
	for _, h := range required {
		if !present.has(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// isBlankRecord reports whether every cell is empty or whitespace.
func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
