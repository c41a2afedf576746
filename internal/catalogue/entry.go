package catalogue

import (
	"github.com/google/uuid"
)

// Field names every catalogue record must carry.
const (
	FieldScenario = "scenario"
	FieldVariant  = "variant"
	FieldAgent    = "agent"
	FieldRouteID  = "route_id"
	FieldClipIdx  = "clip_idx"
	FieldRelPath  = "rel_path"
)

// RequiredFields lists the facet fields in the order they are reported.
var RequiredFields = []string{
	FieldScenario,
	FieldVariant,
	FieldAgent,
	FieldRouteID,
	FieldClipIdx,
	FieldRelPath,
}

// Entry is one catalogued clip. Entries are immutable once validated.
type Entry struct {
	ID        string  `json:"id,omitempty"`
	Scenario  string  `json:"scenario"`
	Variant   string  `json:"variant"`
	Agent     string  `json:"agent"`
	RouteID   int     `json:"route_id"`
	ClipIdx   int     `json:"clip_idx"`
	RelPath   string  `json:"rel_path"`
	DurationS float64 `json:"duration_s,omitempty"`
	FPS       float64 `json:"fps,omitempty"`
}

// Address identifies the catalogue slot an entry occupies.
type Address struct {
	Scenario string `json:"scenario"`
	Variant  string `json:"variant"`
	Agent    string `json:"agent"`
	RouteID  int    `json:"route_id"`
	ClipIdx  int    `json:"clip_idx"`
}

// Address returns the facet tuple of the entry.
func (e Entry) Address() Address {
	return Address{
		Scenario: e.Scenario,
		Variant:  e.Variant,
		Agent:    e.Agent,
		RouteID:  e.RouteID,
		ClipIdx:  e.ClipIdx,
	}
}

// StableID derives the identifier catalogue scanners assign to a clip: a
// name-based (SHA-1, version 5) UUID of rel_path in the URL namespace.
func StableID(relPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(relPath)).String()
}
