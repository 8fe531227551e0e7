package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Prefix is written in front of every line of text log output.
const Prefix = "🎵 "

// Options describes where and how a logger writes.
type Options struct {
	Name   string
	Level  string // "trace" ... "error", optionally prefixed "json:" for JSON output
	Output io.Writer
}

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	return New(Options{Name: name, Level: level, Output: output})
}

// New creates a logger from opts. JSON output is selected by a "json" level
// prefix or SONGBOOK_JSON_LOG=1.
func New(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level, jsonFormat := SplitLevel(opts.Level)
	if os.Getenv("SONGBOOK_JSON_LOG") == "1" {
		jsonFormat = true
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// SplitLevel separates a "json:<level>" log level into the level and the
// JSON flag. A bare "json" means info.
func SplitLevel(level string) (string, bool) {
	if !strings.HasPrefix(level, "json") {
		return level, false
	}
	if _, after, ok := strings.Cut(level, ":"); ok && after != "" {
		return after, true
	}
	return "info", true
}

// ResolveLevel returns the log level and where it came from.
// Priority: CLI flag, SONGBOOK_BUILDER_LOG_LEVEL, SONGBOOK_LOG_LEVEL, info.
func ResolveLevel(cliLevel string) (level, source string) {
	switch {
	case cliLevel != "":
		return cliLevel, "CLI --log-level"
	case os.Getenv("SONGBOOK_BUILDER_LOG_LEVEL") != "":
		return os.Getenv("SONGBOOK_BUILDER_LOG_LEVEL"), "SONGBOOK_BUILDER_LOG_LEVEL"
	case os.Getenv("SONGBOOK_LOG_LEVEL") != "":
		return os.Getenv("SONGBOOK_LOG_LEVEL"), "SONGBOOK_LOG_LEVEL"
	default:
		return "info", "default"
	}
}

// Output returns the log destination: the file named by SONGBOOK_LOG_PATH
// when it can be opened, stderr otherwise.
func Output() io.Writer {
	if logPath := os.Getenv("SONGBOOK_LOG_PATH"); logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			return file
		}
	}
	return os.Stderr
}
