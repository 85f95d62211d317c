// Package logging assembles structured slog loggers and formatting helpers used
// across bookbinder.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with the batch run ID and book title. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
