// Package config handles configuration loading and merging for shopdash.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--data, --format, --theme, --top, --log-level, etc.)
//  2. Environment variables (SHOPDASH_DATA_DIR, SHOPDASH_FORMAT, NO_COLOR, ...)
//  3. YAML config file (.shopdash.yaml in local directory or ~/.config/shopdash/.shopdash.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Environment Variables
//
// The following environment variables are recognized:
//
//   - SHOPDASH_DATA_DIR: directory holding the CSV exports
//   - SHOPDASH_FORMAT: auto, terminal, llm, json or html
//   - SHOPDASH_THEME: default, orca or mono
//   - SHOPDASH_TOP_N: bars per category leaderboard
//   - SHOPDASH_LOG_LEVEL, SHOPDASH_LOG_FORMAT, SHOPDASH_LOG_FILE
//   - SHOPDASH_NO_COLOR: a boolean ("true", "1", "false", ...); wins over NO_COLOR
//   - NO_COLOR: any non-empty value forces the mono theme
//
// A .env file in the working directory is loaded by the CLI before resolution,
// so it behaves like the process environment.
package config
