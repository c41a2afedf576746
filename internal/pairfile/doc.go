// Package pairfile reads and writes the JSON documents that surround a
// pairing run: the ordered pair list and the variant-to-pivot override map.
//
// Pair lists are written atomically under an advisory lock held beside the
// destination, so a concurrent run can never leave a half-written file.
package pairfile
