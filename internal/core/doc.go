// Package core provides the business logic for the food resource directory:
// the CSV import pipeline and the public location listing.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the frdimport CLI alike.
//
// # Import Pipeline
//
// An import runs in two phases so an operator can review every row's verdict
// before anything is written:
//
//  1. [Importer.ParseAndValidate] reads the file with [Reader], then checks
//     each row with [RowValidator] using the full in-file title list.
//  2. [Importer.Import] walks the validated rows in order. Invalid rows are
//     skipped, valid rows get a unique title ("X", "X (2)", ...) and are
//     mapped by [MapRecord] and written through a [LocationStore].
//
// [Service] wraps both phases for the web layer and keeps the batch and the
// result in a per-user session store between requests.
//
// # Errors
//
// File-level problems are a [*ParseError]; nothing is parsed. Row problems
// are collected in each row's [Verdict] or in [ImportResult.Errors] and never
// stop a run. A store failure wrapping [ErrStorageUnavailable] aborts the run
// with an [*EnvironmentError].
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// category has its own code range for support reference:
//
//   - FILE001-FILE006: file size, format and encoding
//   - VAL001: missing columns
//   - IMP001-IMP004: import sessions and runs
//   - DB001-DB004: storage
//   - REQ001-REQ004: request cancellation, timeout, rate limits and bad query parameters
//   - GEO001-GEO002: geocoding
package core
