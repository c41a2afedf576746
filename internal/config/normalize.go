package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePairing(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePaths() error {
	c.Paths.Catalogue = strings.TrimSpace(c.Paths.Catalogue)
	if c.Paths.Catalogue == "" {
		c.Paths.Catalogue = defaultCatalogue
	}
	c.Paths.Output = strings.TrimSpace(c.Paths.Output)
	if c.Paths.Output == "" {
		c.Paths.Output = defaultOutput
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePairing() error {
	c.Pairing.Policy = strings.TrimSpace(c.Pairing.Policy)
	if c.Pairing.Policy == "" {
		if value, ok := os.LookupEnv(envPolicy); ok {
			c.Pairing.Policy = strings.TrimSpace(value)
		}
	}
	if c.Pairing.Policy == "" {
		c.Pairing.Policy = defaultPolicy
	}

	// The prefix is joined verbatim apart from slash trimming, so only an
	// all-blank value counts as unset.
	if strings.TrimSpace(c.Pairing.PathPrefix) == "" {
		c.Pairing.PathPrefix = ""
		if value, ok := os.LookupEnv(envPathPrefix); ok {
			c.Pairing.PathPrefix = strings.TrimSpace(value)
		}
	}

	if file := strings.TrimSpace(c.Pairing.PivotFile); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("pairing.pivot_file: %w", err)
		}
		c.Pairing.PivotFile = expanded
	}

	c.Pairing.Collision = strings.TrimSpace(c.Pairing.Collision)
	if c.Pairing.Collision == "" {
		c.Pairing.Collision = defaultCollision
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
