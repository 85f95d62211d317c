// Package preflight provides readiness checks for the external tools and
// filesystem paths bookbinder depends on.
//
// The convert command runs CheckSystemDeps before any job and halts when a
// required tool is missing. The check command renders every result.
package preflight
