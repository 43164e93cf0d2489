// Package config loads, validates, and normalizes Inkcast configuration.
//
// Configuration lives in a TOML file (~/.config/inkcast/config.toml or
// ./inkcast.toml). Load applies repository defaults first, then overlays the
// file when present, then normalizes paths and validates the result so the
// rest of the program can trust every field.
package config
