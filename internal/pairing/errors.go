package pairing

import (
	"errors"
	"fmt"
	"strings"

	"clippair/internal/catalogue"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrCollision     = errors.New("catalogue collision")
)

// ConfigurationError reports an unusable pairing option.
type ConfigurationError struct {
	Option string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, 2)
	if option := strings.TrimSpace(e.Option); option != "" {
		if e.Value != "" {
			parts = append(parts, fmt.Sprintf("%s %q", option, e.Value))
		} else {
			parts = append(parts, option)
		}
	}
	if reason := strings.TrimSpace(e.Reason); reason != "" {
		parts = append(parts, reason)
	}
	if len(parts) == 0 {
		return ErrConfiguration.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration, strings.Join(parts, ": "))
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configError(option, value, reason string) error {
	return &ConfigurationError{Option: option, Value: value, Reason: reason}
}

// CollisionError is returned when the reject collision policy meets two
// entries at the same group and axis value.
type CollisionError struct {
	Collision Collision
}

func (e *CollisionError) Error() string {
	c := e.Collision
	return fmt.Sprintf("%s: %s=%q in group %s held by both %s and %s",
		ErrCollision, c.Axis, c.Value, c.Key, clipLabel(c.Kept), clipLabel(c.Dropped))
}

// clipLabel names a clip by rel_path and, when known, its catalogue id.
func clipLabel(e catalogue.Entry) string {
	if e.ID == "" {
		return e.RelPath
	}
	return fmt.Sprintf("%s [id %s]", e.RelPath, e.ID)
}

func (e *CollisionError) Unwrap() error { return ErrCollision }
