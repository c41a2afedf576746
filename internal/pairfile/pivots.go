package pairfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"clippair/internal/pairing"
)

// ReadPivots loads a variant-to-agent override map from a JSON file such as
// {"bc1": "actor3"}.
func ReadPivots(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pivots: %w", err)
	}
	return ParsePivots(data, path)
}

// ParsePivots decodes a pivot override document. Anything other than a JSON
// object of strings is a configuration error naming source.
func ParsePivots(data []byte, source string) (map[string]string, error) {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		return nil, &pairing.ConfigurationError{Option: "pivot-json", Value: source, Reason: err.Error()}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &pairing.ConfigurationError{Option: "pivot-json", Value: source, Reason: "expected a JSON object of variant to agent"}
	}
	pivots := make(map[string]string, len(obj))
	for variant, value := range obj {
		agent, ok := value.(string)
		if !ok {
			return nil, &pairing.ConfigurationError{
				Option: "pivot-json",
				Value:  source,
				Reason: fmt.Sprintf("pivot for variant %q must be a string", variant),
			}
		}
		pivots[variant] = agent
	}
	return pivots, nil
}
