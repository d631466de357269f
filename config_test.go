package standardlogger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect zerolog.Level
		ok     bool
	}{
		{"trace", "trace", zerolog.TraceLevel, true},
		{"debug", "debug", zerolog.DebugLevel, true},
		{"info", "info", zerolog.InfoLevel, true},
		{"warn", "warn", zerolog.WarnLevel, true},
		{"warning_alias", "warning", zerolog.WarnLevel, true},
		{"error", "error", zerolog.ErrorLevel, true},
		{"fatal", "fatal", zerolog.FatalLevel, true},
		{"uppercase", "INFO", zerolog.InfoLevel, true},
		{"mixed_case", "WaRn", zerolog.WarnLevel, true},
		{"padded", "  debug  ", zerolog.DebugLevel, true},
		{"integer", "1", zerolog.InfoLevel, true},
		{"integer_trace", "-1", zerolog.TraceLevel, true},
		{"integer_out_of_range", "42", zerolog.NoLevel, false},
		{"garbage", "verbose", zerolog.NoLevel, false},
		{"empty", "", zerolog.NoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, ok := parseLevel(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expect, lvl)
			}
		})
	}
}

func TestConfigNormalize(t *testing.T) {
	t.Run("valid_levels_are_identity", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ConsoleLevel = "WARN"
		cfg.FileLevel = "trace"

		warnings := cfg.normalize()

		require.Empty(t, warnings)
		assert.Equal(t, "WARN", cfg.ConsoleLevel)
		assert.Equal(t, "trace", cfg.FileLevel)
	})

	t.Run("invalid_console_level_heals_with_one_warning", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ConsoleLevel = "loud"

		warnings := cfg.normalize()

		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "ConsoleLevel")
		assert.Contains(t, warnings[0], "loud")
		assert.Equal(t, DefaultConsoleLevel, cfg.ConsoleLevel)
	})

	t.Run("invalid_file_level_heals_with_one_warning", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FileLevel = "shout"

		warnings := cfg.normalize()

		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "FileLevel")
		assert.Equal(t, DefaultFileLevel, cfg.FileLevel)
	})

	t.Run("both_invalid_yields_two_warnings", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ConsoleLevel = "nope"
		cfg.FileLevel = "nah"

		warnings := cfg.normalize()

		assert.Len(t, warnings, 2)
	})

	t.Run("empty_fields_fill_defaults_silently", func(t *testing.T) {
		var cfg Config

		warnings := cfg.normalize()

		require.Empty(t, warnings)
		assert.Equal(t, DefaultAppName, cfg.AppName)
		assert.Equal(t, DefaultConsoleLevel, cfg.ConsoleLevel)
		assert.Equal(t, DefaultFileLevel, cfg.FileLevel)
		assert.Equal(t, DefaultRotation, cfg.LogFileRotation)
		assert.Equal(t, DefaultRetention, cfg.LogFileRetention)
		assert.Equal(t, DefaultConsoleTimeFormat, cfg.ConsoleTimeFormat)
	})
}
