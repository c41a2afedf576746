// Package pairing turns a validated clip catalogue into a deduplicated,
// sequentially numbered list of comparison pairs.
//
// The engine runs in fixed stages: BuildIndex groups entries by every facet
// except the pairing axis, a Policy emits candidate pairs from those groups,
// Canonicalize fixes the left/right roles of each candidate, and a Sequencer
// drops repeated comparisons and assigns zero-padded pair IDs. Every stage is a
// pure function of its inputs; the tournament policy draws from a seeded
// source passed in by the caller, so identical inputs always yield identical
// output.
//
// Group iteration follows first-seen catalogue order and axis values are
// visited in sorted order. Nothing here depends on Go map iteration order.
package pairing
