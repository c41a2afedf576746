// Package main hosts the clippair CLI entrypoint and command graph.
//
// The Cobra-based command tree turns a clip catalogue into an ordered list of
// comparison pairs, inspects catalogues and pair files, reports the run
// ledger, checks readiness, and scaffolds configuration. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
