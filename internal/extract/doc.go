// Package extract provides contact extraction from fetched page text.
//
// # Purpose
//
// Extractors run pattern matching against page snapshots to find contact
// data: email addresses and UK mobile phone numbers. Each extractor owns
// its regular expression and normalization rules.
//
// # Components
//
//   - Extractor: The interface all extractors implement
//   - Runner: Coordinates running all registered extractors over a page set
//   - EmailExtractor: Email address detection
//   - PhoneExtractor: UK mobile number detection and normalization
//
// # Usage
//
//	runner := extract.NewRunner()
//	contacts, err := runner.Extract(ctx, pages)
//
// Extraction is text-only: pages are expected to carry a visible-text
// snapshot with markup already stripped by the fetch package.
package extract
