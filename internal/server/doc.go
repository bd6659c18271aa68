// Package server provides the web UI and JSON API for browsing scan history
// and launching scans from a browser.
//
// The server is built on gin and reads from the scan database. Scan
// execution is injected through a ScanFunc so the HTTP layer stays
// independent of the search and fetch machinery.
//
// Routes:
//   - GET  /                      scan form and recent history
//   - POST /scan                  run a scan and redirect to its result page
//   - GET  /scans/:id             scan result page
//   - GET  /scans/:id/export.csv  contact rows as a CSV download
//   - GET  /api/scans             recent scan metadata as JSON
//   - GET  /api/scans/:id         full scan report as JSON
//   - GET  /health                liveness check
package server
