package pairing

import (
	"cmp"
	"strings"

	"clippair/internal/catalogue"
)

// CompareEntries orders entries by (variant, agent, route_id, clip_idx,
// rel_path). Strings compare bytewise, IDs numerically.
func CompareEntries(a, b catalogue.Entry) int {
	if c := strings.Compare(a.Variant, b.Variant); c != 0 {
		return c
	}
	if c := strings.Compare(a.Agent, b.Agent); c != 0 {
		return c
	}
	if c := cmp.Compare(a.RouteID, b.RouteID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ClipIdx, b.ClipIdx); c != 0 {
		return c
	}
	return strings.Compare(a.RelPath, b.RelPath)
}

// Canonicalize returns the candidate's entries as (left, right), with the
// smaller ordering key on the left regardless of which policy produced it.
func Canonicalize(c Candidate) (left, right catalogue.Entry) {
	if CompareEntries(c.A, c.B) <= 0 {
		return c.A, c.B
	}
	return c.B, c.A
}
