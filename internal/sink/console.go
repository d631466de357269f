// Package sink builds the writers behind the logging pipeline: the pterm and
// plain console writers and the rotating file sink, all driven by zerolog
// events.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// SuppressKey is the transient event field that tells the rich console writer
// to drop a record because the facade is about to render its traceback
// manually. It never appears in persisted output.
const SuppressKey = "suppress_console"

// Reserved event field names used by the facade.
const (
	NameKey  = "name"
	ExtraKey = "extra"
	StackKey = "stack"
)

// RoutePterm points every pterm prefix printer at w, keeping stdout clean for
// application output.
func RoutePterm(w io.Writer) {
	pterm.Info.Writer = w
	pterm.Success.Writer = w
	pterm.Warning.Writer = w
	pterm.Error.Writer = w
	pterm.Debug.Writer = w
}

// PtermWriter renders zerolog events through pterm prefix printers. It is the
// rich console handler: level-filtered, honoring the suppression field when
// decorated tracebacks are in effect.
type PtermWriter struct {
	Out        io.Writer
	Level      zerolog.Level
	TimeFormat string

	// DropSuppressed is set when decorated tracebacks are active; records
	// carrying SuppressKey are then dropped so the facade's manual traceback
	// print is the only console rendering.
	DropSuppressed bool
}

func (w *PtermWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *PtermWriter) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	if lvl != zerolog.NoLevel && lvl < w.Level {
		return len(p), nil
	}

	evt, err := decodeEvent(p)
	if err != nil {
		// Not a JSON event; pass it through untouched.
		return w.Out.Write(p)
	}

	if w.DropSuppressed {
		if suppressed, _ := evt[SuppressKey].(bool); suppressed {
			return len(p), nil
		}
	}

	printer := printerFor(lvl)
	printer.Writer = w.Out
	printer.Println(w.formatLine(evt))

	// Simple-traceback mode: the console handler renders the stack itself.
	if !w.DropSuppressed {
		for _, frame := range stackFrames(evt) {
			fmt.Fprintf(w.Out, "    %s\n", frame)
		}
	}

	return len(p), nil
}

func (w *PtermWriter) formatLine(evt map[string]any) string {
	var parts []string

	if ts := formatTimestamp(evt, w.TimeFormat); ts != "" {
		parts = append(parts, ts)
	}
	if name, _ := evt[NameKey].(string); name != "" {
		parts = append(parts, name+":")
	}
	if msg, _ := evt[zerolog.MessageFieldName].(string); msg != "" {
		parts = append(parts, msg)
	}
	if errStr, _ := evt[zerolog.ErrorFieldName].(string); errStr != "" {
		parts = append(parts, "error="+errStr)
	}
	parts = append(parts, extraPairs(evt)...)

	return strings.Join(parts, " ")
}

// printerFor returns a copy of the pterm printer matching the event level, so
// the writer can be redirected without touching package globals.
func printerFor(lvl zerolog.Level) pterm.PrefixPrinter {
	switch lvl {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return pterm.Debug
	case zerolog.WarnLevel:
		return pterm.Warning
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return pterm.Error
	default:
		return pterm.Info
	}
}

// NewConsole returns the plain console handler: a zerolog ConsoleWriter on w,
// level-filtered at min.
func NewConsole(w io.Writer, min zerolog.Level, timeFormat string) zerolog.LevelWriter {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}

	return &Leveled{W: cw, Min: min}
}

// Leveled wraps an io.Writer with a per-sink minimum level.
type Leveled struct {
	W   io.Writer
	Min zerolog.Level
}

func (l *Leveled) Write(p []byte) (int, error) {
	return l.W.Write(p)
}

// WriteLevel implements zerolog.LevelWriter.
func (l *Leveled) WriteLevel(lvl zerolog.Level, p []byte) (int, error) {
	if lvl != zerolog.NoLevel && lvl < l.Min {
		return len(p), nil
	}

	return l.W.Write(p)
}

func decodeEvent(p []byte) (map[string]any, error) {
	var evt map[string]any
	if err := json.Unmarshal(p, &evt); err != nil {
		return nil, err
	}

	return evt, nil
}

func formatTimestamp(evt map[string]any, layout string) string {
	raw, _ := evt[zerolog.TimestampFieldName].(string)
	if raw == "" {
		return ""
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}

	return ts.Format(layout)
}

func extraPairs(evt map[string]any) []string {
	extra, _ := evt[ExtraKey].(map[string]any)
	if len(extra) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, extra[k]))
	}

	return pairs
}

func stackFrames(evt map[string]any) []string {
	raw, _ := evt[StackKey].([]any)
	frames := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			frames = append(frames, s)
		}
	}

	return frames
}
