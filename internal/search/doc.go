// Package search provides the search backends that discover sources to
// scan for contact data.
//
// # Backends
//
//   - SerpAPI: Google web search through the SerpAPI service
//   - GitHub: code search through the GitHub API
//
// Both implement the Backend interface so the pipeline can treat them
// uniformly. The GitHub backend additionally implements Retriever, which
// lets the fetch step pull file contents through the API instead of
// fetching result pages over plain HTTP.
//
// # Query construction
//
// Query builds the search string from a person's name and optional
// company. For web search the string follows the form
//
//	"Full Name" "Company" contact OR email OR phone site:*.uk
//
// with the company and UK-site restriction included only when requested.
package search
