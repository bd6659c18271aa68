package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// MaxSnapshotSize is the maximum size of the text snapshot in bytes.
// We limit this to prevent memory issues with very large pages.
const MaxSnapshotSize = 512 * 1024 // 512 KB

// Page represents a fetched source page.
// It holds the text content the extractors run against plus enough
// metadata to attribute findings back to the source.
//
// Design decision: We keep only a text snapshot rather than the raw HTML
// because extraction is purely text-based. The hash of the raw body is
// retained for deduplication of identical pages served under different URLs.
type Page struct {
	// URL is the full URL of the fetched page.
	URL string `json:"url"`

	// Repo is the repository identifier when the page came from the
	// code-hosting backend. Empty for web results.
	Repo string `json:"repo,omitempty"`

	// Title is the page title extracted from the <title> tag, or the
	// search result title when the page has none.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type of the response.
	ContentType string `json:"content_type,omitempty"`

	// Snapshot is the visible-text content of the page with scripts,
	// styles, and noscript blocks removed. Limited to MaxSnapshotSize.
	Snapshot string `json:"-"` // Excluded from JSON to reduce report size

	// Hash is the SHA-256 hash of the raw response body.
	Hash string `json:"hash,omitempty"`
}

// ComputeHash calculates the SHA-256 hash of the given raw body and
// stores it on the page. Empty bodies produce an empty hash.
func (p *Page) ComputeHash(raw []byte) {
	if len(raw) == 0 {
		p.Hash = ""
		return
	}
	sum := sha256.Sum256(raw)
	p.Hash = hex.EncodeToString(sum[:])
}

// TruncateSnapshot enforces the snapshot size limit.
func (p *Page) TruncateSnapshot() {
	if len(p.Snapshot) > MaxSnapshotSize {
		p.Snapshot = p.Snapshot[:MaxSnapshotSize]
	}
}
