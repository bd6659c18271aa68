// Package database provides SQLite-based storage for ContactFinder.
//
// This package implements the ContactDB, which stores:
//   - Complete scan reports as JSON for history lookups
//   - Individual contact rows for direct SQL queries across scans
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
