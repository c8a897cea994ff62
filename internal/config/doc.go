// Package config loads, normalizes, and validates FreqShift configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides for the
// delegate binaries (FREQSHIFT_FFMPEG, FREQSHIFT_VGMSTREAM). The Config type
// centralizes every knob the CLI and conversion engine need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
