package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"clippair/internal/catalogue"
)

// WriteJSON marshals v with two-space indentation and writes it to path,
// creating parent directories.
func WriteJSON(t testing.TB, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteCatalogue writes entries as a catalogue JSON array.
func WriteCatalogue(t testing.TB, path string, entries ...catalogue.Entry) {
	t.Helper()

	if entries == nil {
		entries = []catalogue.Entry{}
	}
	WriteJSON(t, path, entries)
}

// Clip builds a catalogue entry whose rel_path mirrors its facets.
func Clip(scenario, variant, agent string, routeID, clipIdx int) catalogue.Entry {
	return catalogue.Entry{
		Scenario: scenario,
		Variant:  variant,
		Agent:    agent,
		RouteID:  routeID,
		ClipIdx:  clipIdx,
		RelPath:  fmt.Sprintf("%s/%s/%d/clip_%03d.mp4", variant, agent, routeID, clipIdx),
	}
}
