// Package config loads, normalizes, and validates pictor configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the daemon and CLI need: catalog/thumbnail directories, the classifier
// vocabulary and acceptance threshold, recognizer concurrency, worker batch
// sizing, and the review confidence window.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
