// Package config loads, normalizes, and validates bookbinder configuration.
//
// It supplies defaults, reads an optional TOML file, applies BOOKBINDER_*
// environment overrides, expands user paths (including tilde shortcuts), and
// checks the result with struct-tag rules plus a few hand-written ones. The
// Config type carries every knob the CLI and conversion pipeline need.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
