// Package coverage loads Cobertura coverage reports and restructures them.
//
// A report is kept as a mutable XML element tree so that everything the
// tool does not interpret (methods, lines, sources, DOCTYPE, comments) is
// written back unchanged. The main operations are:
//   - Load: parse a report file strictly, failing on missing or malformed input
//   - Report.Flatten: move every class into its own top-level package
//   - Report.Save: rewrite the report in place as UTF-8 with an XML declaration
//
// Rate attributes (line-rate, branch-rate, complexity) are kept as the
// strings found in the document. ParseRate converts them to numbers for
// rendering and never fails.
package coverage
