// Package config loads, normalizes, and validates clippair configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file, and honours environment
// fallbacks such as CLIPPAIR_POLICY. The Config type centralizes the pairing
// knobs and file locations the CLI needs so they are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
