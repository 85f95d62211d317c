// Package textutil provides small text helpers shared across packages,
// chiefly turning free-form book titles into safe output file names.
package textutil
