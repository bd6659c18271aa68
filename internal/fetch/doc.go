// Package fetch retrieves the pages behind search results and converts
// them to text ready for contact extraction.
//
// # Components
//
//   - Fetcher: Rate-limited HTTP retrieval of result URLs
//   - ExtractText: HTML-to-visible-text conversion
//
// # Politeness
//
// The fetcher paces requests with a token-bucket rate limiter (one
// request per second by default) so a scan never hammers the servers
// behind the search results. Each request carries a descriptive
// User-Agent and a response body size cap.
//
// # Failure handling
//
// A failed fetch affects only that one source: the caller records the
// error against the source URL and continues with the rest. There are
// no retries.
package fetch
