package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/logging"
)

// ConfigFileName is the name of the config file in the user config directory
const ConfigFileName = "config.yaml"

// SearchNames are the file names looked up in every directory, in order
var SearchNames = []string{
	"." + constants.AppName + "rc",
	"." + constants.AppName + "rc.yaml",
	"." + constants.AppName + "rc.yml",
	"." + constants.AppName + "rc.json",
	constants.AppName + ".config.yaml",
	constants.AppName + ".config.yml",
}

var logger = logging.Named("config:mgr")

// FileConfig represents the configuration file structure. Pointer fields
// distinguish an absent key from a zero value.
type FileConfig struct {
	Port         *int     `yaml:"port,omitempty"`
	APIKey       string   `yaml:"apiKey,omitempty"`
	Model        string   `yaml:"model,omitempty"`
	MaxTokens    *int     `yaml:"maxTokens,omitempty"`
	Temperature  *float64 `yaml:"temperature,omitempty"`
	SafeMode     *bool    `yaml:"safeMode,omitempty"`
	ShowWelcome  *bool    `yaml:"showWelcome,omitempty"`
	EnableColors *bool    `yaml:"enableColors,omitempty"`
	BaseURL      string   `yaml:"baseURL,omitempty"`

	// CommandTimeout is in seconds
	CommandTimeout *int `yaml:"commandTimeout,omitempty"`

	// Legacy key names
	KimiAPIKey string `yaml:"kimiApiKey,omitempty"`
	AIModel    string `yaml:"aiModel,omitempty"`
}

// GetConfigPaths returns the candidate config files in priority order:
// every search name in start and each parent up to and including home,
// then the user config directory.
func GetConfigPaths(start, home string) []string {
	var paths []string

	dir := filepath.Clean(start)
	home = filepath.Clean(home)
	for {
		for _, name := range SearchNames {
			paths = append(paths, filepath.Join(dir, name))
		}
		if dir == home {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constants.AppName, ConfigFileName))
	}

	return paths
}

// FindConfigFile returns the first existing config file for the working
// directory, or ErrConfigNotFound.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("could not determine working directory: %w", err)
	}
	home, _ := os.UserHomeDir()

	for _, path := range GetConfigPaths(cwd, home) {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// loadConfigFromPath loads config from a specific path
func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &fc, nil
}

// ApplyFileConfig merges file values over c. Current key names win over
// their legacy aliases.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.KimiAPIKey != "" {
		c.APIKey = fc.KimiAPIKey
	}
	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.AIModel != "" {
		c.Model = fc.AIModel
	}
	if fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.MaxTokens != nil {
		c.MaxTokens = *fc.MaxTokens
	}
	if fc.Temperature != nil {
		c.Temperature = *fc.Temperature
	}
	if fc.SafeMode != nil {
		c.SafeMode = *fc.SafeMode
	}
	if fc.ShowWelcome != nil {
		c.ShowWelcome = *fc.ShowWelcome
	}
	if fc.EnableColors != nil {
		c.EnableColors = *fc.EnableColors
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.CommandTimeout != nil {
		c.CommandTimeout = *fc.CommandTimeout
	}
}

// Loader resolves the configuration. It never fails: problems are reported
// to Out and the defaults are used instead.
type Loader struct {
	// Path loads one explicit file and skips discovery
	Path string
	// Out receives the user facing notices, os.Stdout when nil
	Out io.Writer
}

// Load returns a fully populated Config
func Load(path string, out io.Writer) Config {
	l := &Loader{Path: path, Out: out}
	return l.Load()
}

// Load returns a fully populated Config. Environment overrides are merged
// before validation on every path, so the result always validates.
func (l *Loader) Load() Config {
	out := l.Out
	if out == nil {
		out = os.Stdout
	}

	path := l.Path
	if path == "" {
		found, err := FindConfigFile()
		if err != nil {
			color.New(color.FgYellow).Fprintln(out, "Could not find configuration, using default")
			logger.Warn("Could not find configuration, using default")
			return l.defaults(out)
		}
		path = found
	}

	fc, err := loadConfigFromPath(path)
	if err != nil {
		reportInvalid(out, []string{err.Error()})
		logger.Warn("Invalid configuration was supplied", logging.Fields{"path": path, "error": err.Error()})
		return l.defaults(out)
	}

	merged := Default()
	merged.ApplyFileConfig(fc)
	merged.Source = path
	merged.ApplyEnv()

	if err := merged.Validate(); err != nil {
		reportInvalid(out, problemLines(err))
		logger.Warn("Invalid configuration was supplied", logging.Fields{"path": path})
		return l.defaults(out)
	}

	logger.Debug("Found and validated configuration", merged.LogFields())
	return merged
}

// defaults returns the defaults with the environment overrides, or the
// plain defaults when the overrides do not validate
func (l *Loader) defaults(out io.Writer) Config {
	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		color.New(color.FgYellow).Fprintln(out, "Invalid environment overrides were supplied")
		red := color.New(color.FgRed)
		red.Fprintln(out, "Errors:")
		for _, line := range problemLines(err) {
			red.Fprintf(out, "  - %s\n", line)
		}
		logger.Warn("Ignoring invalid environment overrides", logging.Fields{"error": err.Error()})
		return Default()
	}
	return cfg
}

func reportInvalid(out io.Writer, problems []string) {
	red := color.New(color.FgRed)
	color.New(color.FgYellow).Fprintln(out, "Invalid configuration was supplied")
	red.Fprintln(out, "Errors:")
	for _, p := range problems {
		red.Fprintf(out, "  - %s\n", p)
	}
	color.New(color.FgBlue).Fprintln(out, "\nUsing default configuration instead...")
}

func problemLines(err error) []string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	lines := make([]string, len(verr.Problems))
	for i, p := range verr.Problems {
		lines[i] = p.String()
	}
	return lines
}

// DefaultConfigPath is where CreateDefaultConfigFile writes
func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, constants.AppName, ConfigFileName), nil
}

// CreateDefaultConfigFile creates a commented config file in the user
// config directory
func CreateDefaultConfigFile() (string, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	defaultConfig := `# AI terminal helper configuration
# Location: ~/.config/tool/config.yaml
# A .toolrc (YAML or JSON) in the project directory takes precedence.

# API key for the completion service. AI features are disabled when empty.
# Can also be set with TOOL_API_KEY.
# apiKey: sk-...

# model: moonshot-v1-8k
# baseURL: https://api.moonshot.cn/v1
# maxTokens: 600
# temperature: 0.7

# Ask before running commands that look dangerous
# safeMode: true

# showWelcome: true
# enableColors: true
# port: 6666

# Seconds before a running command is stopped, 0 waits forever
# commandTimeout: 0
`

	if err := os.WriteFile(path, []byte(defaultConfig), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
