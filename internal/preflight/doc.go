// Package preflight provides readiness checks for the files and directories
// a pairing run depends on.
//
// The "clippair check" command runs every check and prints each result so a
// broken setup can be diagnosed without running the pipeline. Generate does
// not call into this package; it fails on the first real error instead.
//
// Optional inputs such as a pivot file are only checked when configured.
package preflight
