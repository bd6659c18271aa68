// Package main provides the entry point for the ContactFinder CLI.
//
// ContactFinder searches the public web for contact details belonging to a
// named person: email addresses and UK mobile numbers published on pages
// that mention them.
//
// Usage:
//
//	contactfinder scan "Jane Doe"
//	contactfinder scan --company "Acme Ltd" "Jane Doe"
//
// See --help for all available options.
package main

// main is the entry point for ContactFinder.
func main() {
	Execute()
}
