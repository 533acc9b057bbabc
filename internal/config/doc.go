// Package config loads and validates application configuration.
//
// Values come from built-in defaults, an optional YAML file and environment
// variables prefixed with TASKAPI_ (nested keys joined by underscores, e.g.
// TASKAPI_RATE_LIMIT_RULES_CREATE_LIMIT). Environment variables win.
package config
