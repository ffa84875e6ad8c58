// Package database provides SQLite-based storage for coverage history.
//
// This package implements the HistoryDB, which stores:
//   - One row per recorded run: report path, time, root line-rate,
//     class count and digest of the rewritten report
//   - The per-file line-rates of each run, in report order
//
// SQLite is used through modernc.org/sqlite, so the database is a single
// file and the binary stays CGO-free.
package database
