package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultTextFormat is the text-mode line template used when the caller does
// not supply one. It deliberately omits {extra}; text logs include extra data
// only when the template references it.
const DefaultTextFormat = "{time} | {level} | {name}:{caller} - {message}"

// FileConfig describes one file sink.
type FileConfig struct {
	Level     zerolog.Level
	Serialize bool
	Format    string // text template, ignored when Serialize is true
	Rotation  string
	Retention string
}

// FileWriter is the rotating file sink. In serialize mode it persists raw
// JSON events (with the suppression field stripped); in text mode it renders
// each event through the configured template.
type FileWriter struct {
	lj        *lumberjack.Logger
	level     zerolog.Level
	serialize bool
	format    string

	done      chan struct{}
	closeOnce sync.Once
}

// NewFile builds the sink. It fails (so Setup can degrade file logging) when
// the rotation or retention policy does not parse or the file cannot be
// opened for append.
func NewFile(path string, cfg FileConfig) (*FileWriter, error) {
	sizeMB, interval, err := ParseRotation(cfg.Rotation)
	if err != nil {
		return nil, fmt.Errorf("rotation policy: %w", err)
	}

	backups, ageDays, err := ParseRetention(cfg.Retention)
	if err != nil {
		return nil, fmt.Errorf("retention policy: %w", err)
	}

	// Surface permission problems now instead of on the first record.
	probe, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := probe.Close(); err != nil {
		return nil, fmt.Errorf("close log file probe: %w", err)
	}

	format := cfg.Format
	if format == "" {
		format = DefaultTextFormat
	}

	f := &FileWriter{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    sizeMB,
			MaxBackups: backups,
			MaxAge:     ageDays,
		},
		level:     cfg.Level,
		serialize: cfg.Serialize,
		format:    format,
		done:      make(chan struct{}),
	}

	if interval > 0 {
		go f.rotateEvery(interval)
	}

	return f, nil
}

func (f *FileWriter) Write(p []byte) (int, error) {
	return f.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (f *FileWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	if lvl != zerolog.NoLevel && lvl < f.level {
		return len(p), nil
	}

	var out []byte
	if f.serialize {
		out = StripSuppress(p)
	} else {
		out = FormatText(f.format, p)
	}

	if _, err := f.lj.Write(out); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Close stops the interval-rotation goroutine and closes the file.
func (f *FileWriter) Close() error {
	f.closeOnce.Do(func() { close(f.done) })

	return f.lj.Close()
}

// rotateEvery implements time-based rotation, which lumberjack does not do on
// its own.
func (f *FileWriter) rotateEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = f.lj.Rotate()
		case <-f.done:
			return
		}
	}
}

var suppressMarker = []byte(`"` + SuppressKey + `":true`)

// StripSuppress removes the transient suppression field from a serialized
// event so it never reaches persisted output. Events without the field pass
// through untouched.
func StripSuppress(p []byte) []byte {
	if !bytes.Contains(p, suppressMarker) {
		return p
	}

	evt, err := decodeEvent(p)
	if err != nil {
		return p
	}

	delete(evt, SuppressKey)
	out, err := json.Marshal(evt)
	if err != nil {
		return p
	}

	return append(out, '\n')
}

// FormatText renders one serialized event through the line template.
// Placeholders: {time}, {level}, {name}, {caller}, {message}, {extra},
// {exception}. An exception block is appended when the record carries one and
// the template does not place it explicitly.
func FormatText(format string, p []byte) []byte {
	evt, err := decodeEvent(p)
	if err != nil {
		return p
	}

	level, _ := evt[zerolog.LevelFieldName].(string)
	name, _ := evt[NameKey].(string)
	caller, _ := evt[zerolog.CallerFieldName].(string)
	message, _ := evt[zerolog.MessageFieldName].(string)

	line := format
	line = strings.ReplaceAll(line, "{time}", formatTimestamp(evt, "2006-01-02 15:04:05.000"))
	line = strings.ReplaceAll(line, "{level}", fmt.Sprintf("%-8s", strings.ToUpper(level)))
	line = strings.ReplaceAll(line, "{name}", name)
	line = strings.ReplaceAll(line, "{caller}", caller)
	line = strings.ReplaceAll(line, "{message}", message)

	if strings.Contains(format, "{extra}") {
		line = strings.ReplaceAll(line, "{extra}", renderExtra(evt))
	}

	block := exceptionBlock(evt)
	switch {
	case strings.Contains(format, "{exception}"):
		line = strings.ReplaceAll(line, "{exception}", block)
	case block != "":
		line += "\n" + block
	}

	return []byte(line + "\n")
}

func renderExtra(evt map[string]any) string {
	extra, _ := evt[ExtraKey].(map[string]any)
	if len(extra) == 0 {
		return "{}"
	}

	out, err := json.Marshal(extra)
	if err != nil {
		return "{}"
	}

	return string(out)
}

func exceptionBlock(evt map[string]any) string {
	errStr, _ := evt[zerolog.ErrorFieldName].(string)
	frames := stackFrames(evt)
	if errStr == "" && len(frames) == 0 {
		return ""
	}

	var b strings.Builder
	if errStr != "" {
		b.WriteString("error: " + errStr)
	}
	for _, frame := range frames {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("    " + frame)
	}

	return b.String()
}
