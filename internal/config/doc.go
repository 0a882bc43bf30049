// Package config loads, normalizes, and validates gifbake configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GIFBAKE_FFMPEG for fields the file leaves empty. The Config type centralizes
// every knob the CLI needs so staging, artifact, and output directories plus
// the engine binaries are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
