// Package config handles configuration management for stagedit.
// It layers embedded defaults, a user config file (TOML or YAML),
// STAGEDIT_CFG_* environment variables and command-line overrides.
package config
