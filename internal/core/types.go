package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RawRow is one data record from an import file, keyed by trimmed header.
type RawRow struct {
	Number int               `json:"row_number"` // Source row; the header is row 1
	Values map[string]string `json:"values"`
}

// Get returns the cell for header, or "" when the column is absent.
func (r RawRow) Get(header string) string {
	return r.Values[header]
}

// Verdict is the validation outcome for a single row.
// Valid is always equivalent to len(Errors) == 0.
type Verdict struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidatedRow pairs a parsed row with its verdict.
type ValidatedRow struct {
	Row     RawRow  `json:"row"`
	Verdict Verdict `json:"verdict"`
}

// Title returns the row's title cell.
func (v ValidatedRow) Title() string {
	return v.Row.Get(HeaderTitle)
}

// ParsedFile is the output of Reader.Parse.
type ParsedFile struct {
	Headers []string
	Rows    []RawRow
}

// ValidatedBatch is the parse-and-validate result for one uploaded file.
type ValidatedBatch struct {
	Success     bool           `json:"success"`
	FileName    string         `json:"file_name,omitempty"`
	Headers     []string       `json:"headers"`
	Rows        []ValidatedRow `json:"data"`
	TotalRows   int            `json:"total_rows"`
	ValidRows   int            `json:"valid_rows"`
	InvalidRows int            `json:"invalid_rows"`
}

// Address is the structured street address of a location.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	ZIP    string `json:"zip"`
	County string `json:"county"`
}

// OneLine renders the address for geocoding and display.
func (a Address) OneLine() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Street, a.City, a.State, a.ZIP)
}

// DayHours holds the opening window for one weekday.
type DayHours struct {
	Open      bool   `json:"open"`
	OpenTime  string `json:"open_time,omitempty"`
	CloseTime string `json:"close_time,omitempty"`
}

// Coordinates is a cached geocoding result.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationRecord is a stored food-assistance location.
type LocationRecord struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Address     Address             `json:"address"`
	Phone       string              `json:"phone,omitempty"`
	Website     string              `json:"website,omitempty"`
	Services    []string            `json:"services"`
	Languages   []string            `json:"languages"`
	Hours       map[string]DayHours `json:"hours,omitempty"` // Keyed by WeekdayKey; nil when an override note applies
	HoursNote   string              `json:"hours_note,omitempty"`
	Eligibility string              `json:"eligibility,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	Coordinates *Coordinates        `json:"coordinates,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// RowError is one skipped or failed row in an import result.
type RowError struct {
	RowNumber int      `json:"row_number"`
	Title     string   `json:"title"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ImportResult is the aggregate outcome of one import run.
type ImportResult struct {
	Success     int           `json:"success"`
	Failed      int           `json:"failed"`
	Skipped     int           `json:"skipped"`
	Errors      []RowError    `json:"errors"`
	ImportedIDs []string      `json:"imported_ids"`
	Duration    time.Duration `json:"duration_ns"`
}

// ErrStorageUnavailable marks store failures that affect every row, such as a
// lost connection. Stores wrap it; the importer aborts the run when it sees it.
var ErrStorageUnavailable = errors.New("storage unavailable")

// LocationStore is the persistence collaborator used by the importer.
// Create must be atomic: a failed call leaves no partial record behind.
type LocationStore interface {
	FindByTitle(ctx context.Context, title string) (id string, found bool, err error)
	Create(ctx context.Context, rec *LocationRecord) (string, error)
}

// Store is the full persistence surface used by Service.
type Store interface {
	LocationStore

	// List returns locations ordered by title. An empty county matches all.
	List(ctx context.Context, county string) ([]LocationRecord, error)
	SetCoordinates(ctx context.Context, id string, c Coordinates) error
	Count(ctx context.Context) (int, error)
}

// Geocoder resolves a one-line address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}
