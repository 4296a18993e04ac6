// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is the binary name and the config discovery key.
const AppName = "tool"

// Timeout constants used across the application
const (
	// DefaultAPITimeout bounds a single completion request
	DefaultAPITimeout = 60 * time.Second
	// SpinnerInterval is the frame delay for progress spinners
	SpinnerInterval = 100 * time.Millisecond
)

// Application defaults
const (
	DefaultPort        = 6666
	DefaultModel       = "moonshot-v1-8k"
	DefaultBaseURL     = "https://api.moonshot.cn/v1"
	DefaultMaxTokens   = 600
	DefaultTemperature = 0.7
)

// Environment variable names
const (
	EnvAPIKey  = "TOOL_API_KEY"
	EnvModel   = "TOOL_MODEL"
	EnvBaseURL = "TOOL_BASE_URL"
	// EnvDebug holds comma-separated logger namespaces, "*" enables all
	EnvDebug = "DEBUG"
	// EnvLogLevel sets the minimum level written by every logger
	EnvLogLevel = "LOG_LEVEL"
	// EnvLogFormat selects "text" or "json" log lines
	EnvLogFormat = "LOG_FORMAT"
)
