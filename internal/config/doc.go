// Package config loads, normalizes, and validates the TOML configuration for
// lapse. A missing config file is fine: every field has a usable default.
package config
