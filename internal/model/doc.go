// Package model defines the coverage history types shared by the pipeline,
// the history database and the report writers.
//
// This package contains the following main types:
//   - Run: One recorded invocation of the flattener over a report
//   - FileCoverage: The line coverage of a single class within a run
//   - Trend: The comparison between two runs of the same report
//
// The models are kept free of XML and SQL details so that both the
// database layer and the writers can depend on them without cycles.
// They are serializable to JSON for the history command.
package model
