// Package main provides the entry point for the coverflat CLI.
//
// coverflat post-processes a Cobertura coverage report in CI. It splits
// every class into its own package, rewrites the report in place and
// writes an SVG coverage badge and a Markdown summary table.
//
// Usage:
//
//	coverflat coverage/cobertura.xml
//	coverflat --history coverage/cobertura.xml
//	coverflat history coverage/cobertura.xml
//
// See --help for all available options.
package main

// main is the entry point for coverflat.
func main() {
	Execute()
}
