package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/contactfinder/contactfinder/internal/model"
)

// ContactDB provides SQLite-based storage for scan reports and the
// contact records extracted from them.
//
// Design decision: We use a single database file rather than one per
// person. This keeps history queries over all scanned people cheap and
// makes backup/restore a single-file operation.
type ContactDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ContactDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ContactDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ContactDB, error) {
	dbPath := filepath.Join(dbDir, "contactfinder.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		// Check if database file exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// but multiple readers can improve performance
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &ContactDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *ContactDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *ContactDB) createTables() error {
	schema := `
	-- Scan reports store complete scan results as JSON
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL UNIQUE,
		person TEXT NOT NULL,
		company TEXT,
		backend TEXT NOT NULL,
		query TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		contact_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_person ON scans(person);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);

	-- Contact rows mirror the extracted records for direct SQL queries
	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL,
		source TEXT NOT NULL,
		repo TEXT,
		title TEXT,
		email TEXT,
		phone TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(scan_id, source, email, phone)
	);

	CREATE INDEX IF NOT EXISTS idx_contacts_scan ON contacts(scan_id);
	CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
	CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanReport saves a complete scan report as JSON plus one row per
// extracted contact. Contact rows duplicate data from the JSON blob, but
// they make "which scans found this email" answerable with plain SQL.
func (cdb *ContactDB) SaveScanReport(ctx context.Context, report *model.ScanReport) error {
	// Serialize report to JSON
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	// Create contact summary
	summary := map[string]int{
		"emails":   0,
		"phones":   0,
		"contacts": len(report.Contacts),
	}
	if report.Summary != nil {
		summary["emails"] = len(report.Summary.Emails)
		summary["phones"] = len(report.Summary.Phones)
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // summary is a simple map; Marshal won't fail

	query := `
	INSERT INTO scans (scan_id, person, company, backend, query, report_json, contact_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		report.ID,
		report.Person,
		report.Company,
		report.Backend,
		report.Query,
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan report: %w", err)
	}

	for _, c := range report.Contacts {
		if err := cdb.insertContact(ctx, report.ID, c); err != nil {
			return err
		}
	}

	return nil
}

// insertContact inserts a single contact row for a scan.
// Duplicate rows for the same scan are ignored.
func (cdb *ContactDB) insertContact(ctx context.Context, scanID string, c model.Contact) error {
	query := `
	INSERT INTO contacts (scan_id, source, repo, title, email, phone)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(scan_id, source, email, phone) DO NOTHING
	`

	_, err := cdb.db.ExecContext(ctx, query,
		scanID,
		c.Source,
		c.Repo,
		c.Title,
		c.Email,
		c.Phone,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	return nil
}

// GetLatestScanReport retrieves the most recent scan report for a person.
// Returns nil without error when no scan exists.
func (cdb *ContactDB) GetLatestScanReport(ctx context.Context, person string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE person = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var reportJSON string
	err := cdb.db.QueryRowContext(ctx, query, person).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetScanReport retrieves a scan report by its scan ID.
// Returns nil without error when no scan exists.
func (cdb *ContactDB) GetScanReport(ctx context.Context, scanID string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE scan_id = ?
	`

	var reportJSON string
	err := cdb.db.QueryRowContext(ctx, query, scanID).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan report: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListScannedPersons returns all people with at least one stored scan.
func (cdb *ContactDB) ListScannedPersons(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT person FROM scans
	ORDER BY person
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []string
	for rows.Next() {
		var person string
		if err := rows.Scan(&person); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, person)
	}

	return persons, rows.Err()
}

// GetScanHistory retrieves all scan reports for a person, newest first.
func (cdb *ContactDB) GetScanHistory(ctx context.Context, person string) ([]*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE person = ?
	ORDER BY timestamp DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, person)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var reports []*model.ScanReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.ScanReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// ScanMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading the full report.
type ScanMetadata struct {
	// ID is the row identifier of the scan in the database.
	ID int64

	// ScanID is the scan's UUID.
	ScanID string

	// Person is the name that was scanned.
	Person string

	// Company is the optional company qualifier.
	Company string

	// Backend is the search backend that was used.
	Backend string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// ContactSummary contains counts of extracted values by kind.
	ContactSummary map[string]int
}

// scanMetadataRows reads ScanMetadata rows from a query result.
func scanMetadataRows(rows *sql.Rows) ([]ScanMetadata, error) {
	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var company sql.NullString
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.ScanID, &meta.Person, &company, &meta.Backend, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Company = company.String
		meta.Timestamp = parseTimestamp(timestamp)

		// Parse contact summary
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.ContactSummary); err != nil {
				meta.ContactSummary = make(map[string]int)
			}
		} else {
			meta.ContactSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetScanHistoryWithMetadata retrieves scan metadata for a person.
// This is more efficient than GetScanHistory when only metadata is needed.
func (cdb *ContactDB) GetScanHistoryWithMetadata(ctx context.Context, person string) ([]ScanMetadata, error) {
	query := `
	SELECT id, scan_id, person, company, backend, timestamp, contact_summary
	FROM scans
	WHERE person = ?
	ORDER BY timestamp DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, person)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	return scanMetadataRows(rows)
}

// ListRecentScans retrieves metadata for the most recent scans across
// all people. A limit of 0 or less means no limit.
func (cdb *ContactDB) ListRecentScans(ctx context.Context, limit int) ([]ScanMetadata, error) {
	query := `
	SELECT id, scan_id, person, company, backend, timestamp, contact_summary
	FROM scans
	ORDER BY timestamp DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	return scanMetadataRows(rows)
}

// FindContactsByEmail returns stored contact rows matching an email,
// newest first. Useful for answering "which scans already found this
// address" across people.
func (cdb *ContactDB) FindContactsByEmail(ctx context.Context, email string) ([]model.Contact, error) {
	query := `
	SELECT source, repo, title, email, phone FROM contacts
	WHERE email = ?
	ORDER BY timestamp DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var repo, title, em, phone sql.NullString
		if err := rows.Scan(&c.Source, &repo, &title, &em, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Repo = repo.String
		c.Title = title.String
		c.Email = em.String
		c.Phone = phone.String
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
