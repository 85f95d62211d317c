// Package history persists conversion results in a small SQLite database so
// earlier runs can be listed from the CLI.
//
// The schema is created from embedded, versioned migrations the first time a
// database is opened.
package history
