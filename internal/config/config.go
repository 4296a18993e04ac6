package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// Environment variable names - re-exported from constants for convenience
const (
	EnvAPIKey  = constants.EnvAPIKey
	EnvModel   = constants.EnvModel
	EnvBaseURL = constants.EnvBaseURL
)

// Defaults - re-exported from constants for convenience
const (
	DefaultPort        = constants.DefaultPort
	DefaultModel       = constants.DefaultModel
	DefaultBaseURL     = constants.DefaultBaseURL
	DefaultMaxTokens   = constants.DefaultMaxTokens
	DefaultTemperature = constants.DefaultTemperature
)

// Errors
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigNotFound = errors.New("configuration file not found")
)

// Config holds the application configuration. It is built once at startup
// and passed around by value.
type Config struct {
	Port         int
	APIKey       string // empty disables AI features
	Model        string
	MaxTokens    int
	Temperature  float64
	SafeMode     bool
	ShowWelcome  bool
	EnableColors bool
	BaseURL      string

	// CommandTimeout bounds each shell command in seconds, 0 means no limit
	CommandTimeout int

	// Source is the file the values were read from, empty for defaults
	Source string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:         DefaultPort,
		Model:        DefaultModel,
		MaxTokens:    DefaultMaxTokens,
		Temperature:  DefaultTemperature,
		SafeMode:     true,
		ShowWelcome:  true,
		EnableColors: true,
		BaseURL:      DefaultBaseURL,
	}
}

// CommandTimeoutDuration is CommandTimeout as a duration
func (c Config) CommandTimeoutDuration() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

// AIEnabled reports whether an API key is configured
func (c Config) AIEnabled() bool {
	return c.APIKey != ""
}

// Problem is a single validation failure
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Field, p.Message)
}

// ValidationError lists every problem found by Validate
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidConfig
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks value ranges. It returns a *ValidationError describing
// every violation, or nil.
func (c Config) Validate() error {
	var problems []Problem

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, Problem{"/port", "must be between 1 and 65535"})
	}
	if c.MaxTokens <= 0 {
		problems = append(problems, Problem{"/maxTokens", "must be greater than 0"})
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		problems = append(problems, Problem{"/temperature", "must be between 0 and 1"})
	}
	if c.CommandTimeout < 0 {
		problems = append(problems, Problem{"/commandTimeout", "must not be negative"})
	}
	if strings.TrimSpace(c.Model) == "" {
		problems = append(problems, Problem{"/model", "must not be empty"})
	}
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, Problem{"/baseURL", "must be an http or https URL"})
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ApplyEnv overrides values from environment variables
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
}

// CompletionsURL builds the full API URL for chat completions
func (c Config) CompletionsURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/chat/completions"
}

// LogFields returns the configuration as log fields with the key masked
func (c Config) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"port":           c.Port,
		"apiKey":         maskKey(c.APIKey),
		"model":          c.Model,
		"maxTokens":      c.MaxTokens,
		"temperature":    c.Temperature,
		"safeMode":       c.SafeMode,
		"showWelcome":    c.ShowWelcome,
		"enableColors":   c.EnableColors,
		"baseURL":        c.BaseURL,
		"commandTimeout": c.CommandTimeout,
		"source":         c.Source,
	}
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
