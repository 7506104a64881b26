// Package config loads run configuration from YAML files and the
// environment.
//
// Viper reads the base YAML file, a .env file is loaded when present, and
// FLOWKIT_-prefixed environment variables override file values using
// underscore-separated paths (e.g. FLOWKIT_BUDGET_MAX_PARALLEL).
//
// # Usage
//
//	cfg, err := config.LoadRunConfig(config.WithConfigFile("flowkit.yml"))
package config
