// Package config loads, normalizes, and validates musicgenie configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the TOML config file, and applies environment overrides
// (MUSIC_GENIE_* variables take precedence over the file; ACOUSTID_API_KEY
// fills the AcoustID key when the file leaves it empty). Obtain settings
// through this package so downstream code receives sanitized paths and clear
// validation errors.
package config
