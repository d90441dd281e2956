// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file, only when named by -config or TASKFLOW_CONFIG
// 3. Environment variables (TASKFLOW_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Config files are never discovered implicitly. A file is validated against
// an embedded JSON Schema before it is applied.
package config
