package pairing

import (
	"fmt"
	"strings"
)

// DefaultIDWidth is the zero-pad width of pair IDs.
const DefaultIDWidth = 6

// Record is one emitted comparison.
type Record struct {
	PairID      string `json:"pair_id"`
	LeftClip    string `json:"left_clip"`
	RightClip   string `json:"right_clip"`
	Description string `json:"description"`
}

type signature struct {
	left, right, scenario string
}

// Sequencer deduplicates canonicalized candidates and numbers the survivors
// in arrival order.
type Sequencer struct {
	prefix     string
	width      int
	next       int
	seen       map[signature]struct{}
	records    []Record
	duplicates int
}

// NewSequencer returns a sequencer that prefixes paths with prefix and pads
// IDs to width digits. A width below 1 selects DefaultIDWidth.
func NewSequencer(prefix string, width int) *Sequencer {
	if width < 1 {
		width = DefaultIDWidth
	}
	return &Sequencer{
		prefix:  prefix,
		width:   width,
		next:    1,
		seen:    make(map[signature]struct{}),
		records: make([]Record, 0),
	}
}

// Accept canonicalizes c and appends it unless its (left path, right path,
// left scenario) signature was already emitted.
func (s *Sequencer) Accept(c Candidate) (Record, bool) {
	left, right := Canonicalize(c)
	sig := signature{
		left:     JoinPrefix(s.prefix, left.RelPath),
		right:    JoinPrefix(s.prefix, right.RelPath),
		scenario: left.Scenario,
	}
	if _, dup := s.seen[sig]; dup {
		s.duplicates++
		return Record{}, false
	}
	s.seen[sig] = struct{}{}

	record := Record{
		PairID:      FormatPairID(s.next, s.width),
		LeftClip:    sig.left,
		RightClip:   sig.right,
		Description: left.Scenario,
	}
	s.next++
	s.records = append(s.records, record)
	return record, true
}

// Records returns the accepted records in ID order.
func (s *Sequencer) Records() []Record { return s.records }

// Duplicates returns how many candidates were dropped as repeats.
func (s *Sequencer) Duplicates() int { return s.duplicates }

// Sequence runs candidates through a fresh Sequencer.
func Sequence(candidates []Candidate, prefix string, width int) []Record {
	seq := NewSequencer(prefix, width)
	for _, c := range candidates {
		seq.Accept(c)
	}
	return seq.Records()
}

// JoinPrefix joins prefix and path with exactly one "/". An empty prefix
// returns path unchanged.
func JoinPrefix(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(path, "/")
}

// FormatPairID renders n zero-padded to width digits. Numbers wider than
// width are rendered in full.
func FormatPairID(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
