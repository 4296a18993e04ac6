// Package logging provides structured, namespaced logging for the CLI.
//
// Every component asks for its own logger by name:
//
//	var logger = logging.Named("terminal")
//
//	logger.Warn("Error in terminal", logging.Fields{"error": err.Error()})
//	logger.Debug("Received configuration", logging.Fields{"port": cfg.Port})
//
// Warnings and errors always reach the output. Debug lines are enabled per
// namespace through the DEBUG environment variable, using the same syntax
// as the node "debug" module: a comma separated list of names, "*" wildcards
// and "-name" exclusions (DEBUG=terminal,ai-service or DEBUG=*,-config:mgr).
// LOG_LEVEL lowers or raises the level for every logger and LOG_FORMAT=json
// switches to one JSON object per line; ConfigureFromEnv applies both.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

// Level represents a logging level
type Level int

const (
	// LevelDebug is for detailed debugging information
	LevelDebug Level = iota
	// LevelInfo is for general informational messages
	LevelInfo
	// LevelWarn is for warning messages
	LevelWarn
	// LevelError is for error messages
	LevelError
	// LevelNone disables all logging
	LevelNone
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE", "OFF":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Format represents the output format
type Format int

const (
	// FormatText outputs human-readable text
	FormatText Format = iota
	// FormatJSON outputs machine-readable JSON
	FormatJSON
)

// ParseFormat parses "json" or "text", anything else is FormatText
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}

// Fields is a map of structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Logger    string    `json:"logger,omitempty"`
	Message   string    `json:"message"`
	Fields    Fields    `json:"fields,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Options configures the logger
type Options struct {
	Level  Level
	Format Format
	Output io.Writer
	// Colors tints the level tag in text output
	Colors bool
	// Debug is the namespace filter, usually the DEBUG environment variable
	Debug string
}

// Logger provides structured logging capabilities. A Logger returned by
// Named shares the output, format and level of its root and only adds its
// namespace plus the per-namespace debug switch.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	output io.Writer
	colors bool
	filter string

	name   string
	root   *Logger
	fields Fields
}

// DefaultLogger is the root every Named logger hangs off
var DefaultLogger = New(Options{
	Level:  LevelWarn,
	Format: FormatText,
	Output: os.Stderr,
	Colors: true,
	Debug:  os.Getenv(constants.EnvDebug),
})

// New creates a new root Logger with the given options
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &Logger{
		level:  opts.Level,
		format: opts.Format,
		output: opts.Output,
		colors: opts.Colors,
		filter: opts.Debug,
	}
}

// Named returns a component logger under the default root
func Named(name string) *Logger {
	return DefaultLogger.Named(name)
}

// Named returns a component logger sharing l's sink
func (l *Logger) Named(name string) *Logger {
	return &Logger{name: name, root: l.sink(), fields: l.fields}
}

func (l *Logger) sink() *Logger {
	if l.root != nil {
		return l.root
	}
	return l
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level Level) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// SetFormat changes the output format
func (l *Logger) SetFormat(format Format) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.format = format
}

// SetOutput changes the output writer
func (l *Logger) SetOutput(w io.Writer) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = w
}

// SetColors toggles coloured level tags
func (l *Logger) SetColors(enabled bool) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors = enabled
}

// SetDebugFilter replaces the namespace filter
func (l *Logger) SetDebugFilter(filter string) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// DebugEnabled reports whether Debug lines of this logger are written
func (l *Logger) DebugEnabled() bool {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled(LevelDebug, l.name)
}

// enabled must be called on the sink with its mu held
func (l *Logger) enabled(level Level, name string) bool {
	if level >= l.level {
		return true
	}
	return level == LevelDebug && name != "" && MatchNamespace(l.filter, name)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.log(LevelDebug, msg, nil, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.log(LevelInfo, msg, nil, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.log(LevelWarn, msg, nil, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.log(LevelError, msg, err, fields...)
}

func (l *Logger) log(level Level, msg string, err error, fields ...Fields) {
	s := l.sink()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled(level, l.name) {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Logger:    l.name,
		Message:   msg,
	}

	if len(fields) > 0 || len(l.fields) > 0 {
		merged := make(Fields, len(l.fields))
		for k, v := range l.fields {
			merged[k] = v
		}
		for _, f := range fields {
			for k, v := range f {
				merged[k] = v
			}
		}
		entry.Fields = merged
	}

	if err != nil {
		entry.Error = err.Error()
	}

	var output string
	if s.format == FormatJSON {
		output = formatJSON(entry)
	} else {
		output = formatText(entry, s.colors)
	}

	fmt.Fprintln(s.output, output)
}

func formatJSON(entry LogEntry) string {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %s"}`, err.Error())
	}
	return string(data)
}

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.FgHiBlack),
	"INFO":  color.New(color.FgWhite),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
}

func formatText(entry LogEntry, colors bool) string {
	timestamp := entry.Timestamp.Format("2006-01-02 15:04:05.000")

	tag := entry.Level
	if c, ok := levelColors[tag]; ok && colors {
		tag = c.Sprint(tag)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s", timestamp, tag))
	if entry.Logger != "" {
		sb.WriteString(" " + entry.Logger)
	}
	sb.WriteString(": " + entry.Message)

	if entry.Error != "" {
		sb.WriteString(fmt.Sprintf(" error=%q", entry.Error))
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, entry.Fields[k]))
	}

	return sb.String()
}

// WithFields returns a logger that adds the given fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{name: l.name, root: l.sink(), fields: merged}
}

// MatchNamespace reports whether name is selected by a DEBUG style filter.
// Exclusions ("-name") win over inclusions.
func MatchNamespace(filter, name string) bool {
	if filter == "" || name == "" {
		return false
	}
	included := false
	for _, part := range strings.FieldsFunc(filter, func(r rune) bool { return r == ',' || r == ' ' }) {
		if strings.HasPrefix(part, "-") {
			if ok, _ := path.Match(part[1:], name); ok {
				return false
			}
			continue
		}
		if ok, _ := path.Match(part, name); ok {
			included = true
		}
	}
	return included
}

// Package-level convenience functions using DefaultLogger

// Warn logs a warning using the default logger
func Warn(msg string, fields ...Fields) {
	DefaultLogger.Warn(msg, fields...)
}

// Error logs an error using the default logger
func Error(msg string, err error, fields ...Fields) {
	DefaultLogger.Error(msg, err, fields...)
}

// SetOutput redirects the default logger
func SetOutput(w io.Writer) {
	DefaultLogger.SetOutput(w)
}

// SetColors toggles colours on the default logger
func SetColors(enabled bool) {
	DefaultLogger.SetColors(enabled)
}

// ConfigureFromEnv applies LOG_LEVEL, LOG_FORMAT and DEBUG to the default
// logger. Unset variables leave the current setting alone.
func ConfigureFromEnv() {
	if v := strings.TrimSpace(os.Getenv(constants.EnvLogLevel)); v != "" {
		DefaultLogger.SetLevel(ParseLevel(v))
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvLogFormat)); v != "" {
		DefaultLogger.SetFormat(ParseFormat(v))
	}
	if v, ok := os.LookupEnv(constants.EnvDebug); ok {
		DefaultLogger.SetDebugFilter(v)
	}
}
