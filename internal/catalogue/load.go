package catalogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Load reads and validates the catalogue at path.
func Load(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalogue: %w", err)
	}
	defer file.Close()

	records, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode catalogue %s: %w", path, err)
	}
	entries, err := Validate(records)
	if err != nil {
		return nil, fmt.Errorf("validate catalogue %s: %w", path, err)
	}
	return entries, nil
}

// Decode parses a JSON array of records. Numbers are kept as json.Number so
// integer facets can be checked exactly. Array elements that are not objects
// decode to nil and are rejected by Validate.
func Decode(r io.Reader) ([]map[string]any, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: catalogue must be a JSON array: %w", ErrSchema, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: catalogue must be a JSON array, got null", ErrSchema)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after catalogue array", ErrSchema)
	}

	records := make([]map[string]any, len(raw))
	for i, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var record map[string]any
		itemDec := json.NewDecoder(bytes.NewReader(trimmed))
		itemDec.UseNumber()
		if err := itemDec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
		records[i] = record
	}
	return records, nil
}
