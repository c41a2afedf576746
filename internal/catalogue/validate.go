package catalogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrSchema marks catalogue records that do not carry the required facets.
var ErrSchema = errors.New("catalogue schema error")

// RecordIssue describes why a single record was rejected.
type RecordIssue struct {
	Index   int
	Missing []string
	Invalid []string
	Reason  string
}

func (r RecordIssue) String() string {
	parts := make([]string, 0, 3)
	if r.Reason != "" {
		parts = append(parts, r.Reason)
	}
	if len(r.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(r.Invalid, ", "))
	}
	return fmt.Sprintf("entry %d %s", r.Index, strings.Join(parts, "; "))
}

// SchemaError reports every non-conforming record of a catalogue.
type SchemaError struct {
	Issues []RecordIssue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchema.Error()
	}
	msg := fmt.Sprintf("%s: %s", ErrSchema, e.Issues[0])
	if extra := len(e.Issues) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more invalid entries)", extra)
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// First returns the first rejected record.
func (e *SchemaError) First() RecordIssue {
	if len(e.Issues) == 0 {
		return RecordIssue{Index: -1}
	}
	return e.Issues[0]
}

// Validate converts raw decoded records into entries. Any missing or mistyped
// facet rejects the whole catalogue; extra fields are ignored.
func Validate(records []map[string]any) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	var issues []RecordIssue
	for i, record := range records {
		if record == nil {
			issues = append(issues, RecordIssue{Index: i, Reason: "record is not an object"})
			continue
		}
		entry, issue := convert(record)
		if issue != nil {
			issue.Index = i
			issues = append(issues, *issue)
			continue
		}
		entries = append(entries, entry)
	}
	if len(issues) > 0 {
		return nil, &SchemaError{Issues: issues}
	}
	return entries, nil
}

func convert(record map[string]any) (Entry, *RecordIssue) {
	var missing, invalid []string
	for _, field := range RequiredFields {
		value, ok := record[field]
		if !ok || value == nil {
			missing = append(missing, field)
			continue
		}
		switch field {
		case FieldRouteID, FieldClipIdx:
			if _, ok := intValue(value); !ok {
				invalid = append(invalid, field)
			}
		default:
			if _, ok := value.(string); !ok {
				invalid = append(invalid, field)
			}
		}
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return Entry{}, &RecordIssue{Missing: missing, Invalid: invalid}
	}

	routeID, _ := intValue(record[FieldRouteID])
	clipIdx, _ := intValue(record[FieldClipIdx])
	entry := Entry{
		Scenario: record[FieldScenario].(string),
		Variant:  record[FieldVariant].(string),
		Agent:    record[FieldAgent].(string),
		RouteID:  routeID,
		ClipIdx:  clipIdx,
		RelPath:  record[FieldRelPath].(string),
	}
	if id, ok := record["id"].(string); ok && strings.TrimSpace(id) != "" {
		entry.ID = id
	} else {
		entry.ID = StableID(entry.RelPath)
	}
	if v, ok := floatValue(record["duration_s"]); ok {
		entry.DurationS = v
	}
	if v, ok := floatValue(record["fps"]); ok {
		entry.FPS = v
	}
	return entry, nil
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func floatValue(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
