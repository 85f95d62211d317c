// Package conversion runs audiobook jobs end to end.
//
// Orchestrator.Convert turns one source directory into one M4B file:
// discovery, scratch workspace, control files, encode with progress,
// post-processing, and the optional Telegram compatibility check. Every
// failure inside a job becomes a Result, so ConvertBatch always returns one
// Result per directory it reached.
package conversion
