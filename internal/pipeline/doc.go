// Package pipeline provides a framework for executing the coverage steps
// in sequence.
//
// A report goes through loading, badge generation, flattening, saving,
// summary generation and, optionally, history recording. Each stage is a
// Step that receives the shared Run and can modify it. The badge is
// produced before the report is checked for a <packages> section, so a
// failed flatten still leaves the badge behind.
package pipeline
