package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Policy and collision names
// are checked where they are parsed, in the pairing package.
func (c *Config) Validate() error {
	if err := c.validatePairing(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePairing() error {
	if c.Pairing.SampleSize <= 0 {
		return errors.New("pairing.k must be positive")
	}
	if c.Pairing.IDWidth <= 0 {
		return errors.New("pairing.id_width must be positive")
	}
	for variant, agent := range c.Pairing.Pivots {
		if strings.TrimSpace(variant) == "" {
			return errors.New("pairing.pivots keys must be non-empty variant names")
		}
		if strings.TrimSpace(agent) == "" {
			return fmt.Errorf("pairing.pivots.%s must name an agent", variant)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
