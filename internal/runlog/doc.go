// Package runlog persists a ledger of pairing runs in SQLite.
//
// Every successful generate run is recorded with the options that shaped it,
// the counts it produced, and the SHA-256 of the pair list it wrote, so an
// output file can later be traced back to the exact parameters that made it.
// Schema changes ship as embedded, ordered migrations applied on Open.
package runlog
