package core

import "strconv"

// ReportFileName is the download name for the error report.
const ReportFileName = "food-resource-import-errors.csv"

// Report entry types.
const (
	ReportTypeError   = "Error"
	ReportTypeWarning = "Warning"
)

// ReportHeaders is the error report column order.
var ReportHeaders = []string{"Row Number", "Title", "Error Type", "Details"}

// ReportRows flattens entries into one row per message, errors before
// warnings within each entry.
func ReportRows(entries []RowError) [][]string {
	rows := [][]string{ReportHeaders}
	for _, e := range entries {
		num := strconv.Itoa(e.RowNumber)
		for _, msg := range e.Errors {
			rows = append(rows, []string{num, e.Title, ReportTypeError, msg})
		}
		for _, msg := range e.Warnings {
			rows = append(rows, []string{num, e.Title, ReportTypeWarning, msg})
		}
	}
	return rows
}

// GenerateErrorReport renders entries as CSV.
func GenerateErrorReport(entries []RowError) ([]byte, error) {
	return writeCSV(ReportRows(entries))
}
