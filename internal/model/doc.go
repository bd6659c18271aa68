// Package model defines the core data structures used throughout contactfinder.
//
// This package contains the following main types:
//   - Contact: A single extracted contact datum tied to its source
//   - Page: Represents a fetched source page with its text snapshot
//   - SearchResult: A single search backend result
//   - ScanReport: The main scan result structure
//   - Summary: A summarized, human-readable report
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (fetch, extract, report, server) need to use
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
