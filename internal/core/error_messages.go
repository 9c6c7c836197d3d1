package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// # Error Codes Reference
//
// File errors (FILE001-FILE099):
//
//	FILE001 - File too large (5 MB limit)             "file too large"
//	FILE002 - Not a valid CSV                          "invalid csv"
//	FILE003 - Header row unreadable                    "unreadable header"
//	FILE004 - No file selected                         "no file provided"
//	FILE005 - Wrong file type                          "unsupported file type"
//	FILE006 - File not found (CLI)                     "file not found"
//
// Validation errors (VAL001-VAL099):
//
//	VAL001 - Required column missing                   "missing required column"
//
// Import errors (IMP001-IMP099):
//
//	IMP001 - Another import is running                 "too many concurrent imports"
//	IMP002 - Nothing uploaded, or the upload expired   "no pending import"
//	IMP003 - No finished import to report on           "no import results"
//	IMP004 - Run stopped part way                      "import aborted"
//
// Storage errors (DB001-DB099):
//
//	DB001 - Title already taken                        "unique constraint", "duplicate key"
//	DB002 - Database unreachable                       "storage unavailable", "connection refused"
//	DB003 - Database busy                              "database is locked", "deadlock"
//	DB004 - Operation timed out                        "timeout"
//
// Request errors (REQ001-REQ099):
//
//	REQ001 - Request cancelled                         "context canceled"
//	REQ002 - Request timed out                         "context deadline exceeded"
//	REQ003 - Rate limited                              "rate limit"
//
// Directory errors (GEO001-GEO099):
//
//	GEO001 - Address could not be located              "no geocoding results"
//	GEO002 - Geocoding not configured                  "geocoding not configured"
//
// ERR000 is the fallback; check the logs for the technical error.
//
// Patterns match case-insensitively with strings.Contains and the first match
// wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Service and matched by the patterns below.
var (
	ErrNoFile              = errors.New("no file provided")
	ErrUnsupportedFileType = errors.New("unsupported file type: only .csv files are accepted")
	ErrNoPendingImport     = errors.New("no pending import for this session")
	ErrNoResults           = errors.New("no import results for this session")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File
	{"file too large", UserMessage{"File exceeds the 5 MB size limit", "Split the file into smaller files", "FILE001"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Save the spreadsheet as comma-separated values", "FILE002"}},
	{"unreadable header", UserMessage{"The header row could not be read", "Start from the downloadable template", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a CSV file to upload", "FILE004"}},
	{"unsupported file type", UserMessage{"Only .csv files are accepted", "Export your spreadsheet as CSV and try again", "FILE005"}},
	{"file not found", UserMessage{"File not found", "Check the file path", "FILE006"}},

	// Validation
	{"missing required column", UserMessage{"Required columns are missing from the file", "Compare your headers with the template", "VAL001"}},

	// Import
	{"too many concurrent imports", UserMessage{"Another import is running", "Please wait a moment and try again", "IMP001"}},
	{"no pending import", UserMessage{"There is no uploaded file to import", "Upload the file again; uploads expire after an hour", "IMP002"}},
	{"no import results", UserMessage{"No import has finished yet", "Confirm an import first", "IMP003"}},
	{"import aborted", UserMessage{"The import stopped before finishing", "Review the results, then re-upload the remaining rows", "IMP004"}},

	// Storage
	{"unique constraint", UserMessage{"A location with this title already exists", "Download the error report to review duplicates", "DB001"}},
	{"duplicate key", UserMessage{"A location with this title already exists", "Download the error report to review duplicates", "DB001"}},
	{"storage unavailable", UserMessage{"Unable to reach the database", "Please try again in a few moments", "DB002"}},
	{"connection refused", UserMessage{"Unable to reach the database", "Please try again in a few moments", "DB002"}},
	{"database is locked", UserMessage{"The database is busy", "Please try again", "DB003"}},
	{"deadlock", UserMessage{"The database is busy", "Please try again", "DB003"}},

	// Request
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "REQ002"}},
	{"timeout", UserMessage{"Operation timed out", "Try a smaller file or try again later", "DB004"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "REQ003"}},

	// Directory
	{"no geocoding results", UserMessage{"That address could not be located", "Check the address and try again", "GEO001"}},
	{"geocoding not configured", UserMessage{"Address search is not available", "Contact the site administrator", "GEO002"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matched a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError carries a technical error together with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}

// DetailMessage returns text safe to show verbatim for errors whose own
// message is the useful part, such as the list of missing columns. Other
// errors get the mapped user message.
func DetailMessage(err error) string {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	return MapError(err).Message
}
