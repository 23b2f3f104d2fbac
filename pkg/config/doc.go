// Package config defines the application configuration, loaded from a
// YAML file with defaults applied, optional AEGIS_* environment
// variable overrides, and validation of the final result.
package config
