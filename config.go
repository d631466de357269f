package standardlogger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// FileDisabled is the LogFilePath sentinel that turns file logging off
// entirely. An empty LogFilePath auto-generates a platform path instead.
const FileDisabled = "disabled"

// Defaults applied by DefaultConfig and by Config normalization.
const (
	DefaultAppName           = "GoApp"
	DefaultAppAuthor         = "Kardome"
	DefaultConsoleLevel      = "info"
	DefaultFileLevel         = "debug"
	DefaultConsoleTimeFormat = "15:04:05"
	DefaultRotation          = "10 MB"
	DefaultRetention         = "7 days"
)

// Config holds every knob for Setup. It is owned by the caller and read-only
// once Setup has normalized it; build one with DefaultConfig and override
// fields as needed.
type Config struct {
	// AppName and AppAuthor identify the application for platform log
	// directory resolution when LogFilePath is empty.
	AppName   string
	AppAuthor string

	// ConsoleLevel and FileLevel accept a severity name (case-insensitive:
	// trace, debug, info, warn/warning, error, fatal) or a zerolog integer
	// ("-1" through "5"). Invalid values self-heal to the documented default
	// with a warning; they never fail Setup.
	ConsoleLevel string
	FileLevel    string

	// UseRichConsole selects pterm rendering for the console; when false the
	// console falls back to a plain zerolog console writer and the Panel,
	// Rule, and Progress methods use their ASCII fallbacks.
	UseRichConsole bool

	// UseSimpleTracebacks disables the decorated traceback path; the console
	// handler then renders exceptions itself, exactly once.
	UseSimpleTracebacks bool

	// ConsoleTimeFormat is a Go time layout for console timestamps.
	ConsoleTimeFormat string

	// ShowLocalsOnException selects verbose traceback frames (full paths,
	// all frames, program counters). Go exposes no frame locals, so this is
	// the closest equivalent of showing them.
	ShowLocalsOnException bool

	// LogFilePath is tri-state: FileDisabled turns file logging off, an
	// empty string auto-generates a platform path, anything else is used
	// verbatim (parent directories are created and checked for writability;
	// failure disables file logging rather than aborting).
	LogFilePath string

	// LogFileFormat is the text-mode line template. Placeholders: {time},
	// {level}, {name}, {caller}, {message}, {extra}, {exception}. Ignored
	// when LogFileSerialize is true. {extra} is included only if referenced.
	LogFileFormat string

	// LogFileRotation is a size ("10 MB") or interval ("24h", "1 day")
	// threshold. LogFileRetention is a rotated-file count ("5") or max age
	// ("7 days").
	LogFileRotation  string
	LogFileRetention string

	// LogFileSerialize selects JSON lines (true) over templated text.
	LogFileSerialize bool
}

// DefaultConfig returns the documented defaults: rich console at info,
// serialized file sink at debug with auto-generated path, 10 MB rotation and
// 7 day retention.
func DefaultConfig() Config {
	return Config{
		AppName:           DefaultAppName,
		AppAuthor:         DefaultAppAuthor,
		ConsoleLevel:      DefaultConsoleLevel,
		FileLevel:         DefaultFileLevel,
		UseRichConsole:    true,
		ConsoleTimeFormat: DefaultConsoleTimeFormat,
		LogFileRotation:   DefaultRotation,
		LogFileRetention:  DefaultRetention,
		LogFileSerialize:  true,
	}
}

// normalize fills empty fields with defaults and self-heals invalid level
// values, returning one warning string per healed field. It never fails.
func (c *Config) normalize() []string {
	var warnings []string

	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.ConsoleTimeFormat == "" {
		c.ConsoleTimeFormat = DefaultConsoleTimeFormat
	}
	if c.LogFileRotation == "" {
		c.LogFileRotation = DefaultRotation
	}
	if c.LogFileRetention == "" {
		c.LogFileRetention = DefaultRetention
	}

	if c.ConsoleLevel == "" {
		c.ConsoleLevel = DefaultConsoleLevel
	} else if _, ok := parseLevel(c.ConsoleLevel); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"invalid ConsoleLevel %q, using default %q", c.ConsoleLevel, DefaultConsoleLevel))
		c.ConsoleLevel = DefaultConsoleLevel
	}

	if c.FileLevel == "" {
		c.FileLevel = DefaultFileLevel
	} else if _, ok := parseLevel(c.FileLevel); !ok {
		warnings = append(warnings, fmt.Sprintf(
			"invalid FileLevel %q, using default %q", c.FileLevel, DefaultFileLevel))
		c.FileLevel = DefaultFileLevel
	}

	return warnings
}

// parseLevel resolves a severity name or zerolog integer string. The boolean
// reports whether the input was recognized.
func parseLevel(s string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "fatal":
		return zerolog.FatalLevel, true
	}

	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if n >= int(zerolog.TraceLevel) && n <= int(zerolog.PanicLevel) {
			return zerolog.Level(n), true
		}
	}

	return zerolog.NoLevel, false
}
