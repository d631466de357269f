package standardlogger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/klugman-yanai/standard-logger/internal/sink"
)

// Extra is the free-form key/value side-channel attached to records. It is
// persisted under an "extra" object in serialized output and rendered as
// key=value pairs on the console.
type Extra map[string]any

// Logger is the facade: standard severity methods plus Panel, Rule,
// Progress, and Exception. Instances are cheap; presentation choices come
// from the latest Setup snapshot at call time, so instances created before a
// Setup call behave identically to ones created after it.
type Logger struct {
	name       string
	extra      Extra
	showLocals *bool
}

// New returns a named facade instance. The name travels with every record.
func New(name string) *Logger {
	return &Logger{name: name}
}

// Default returns an unnamed facade instance.
func Default() *Logger {
	return &Logger{}
}

// WithExtra returns a derived facade whose records carry the given extra
// data merged over any already present.
func (l *Logger) WithExtra(extra Extra) *Logger {
	merged := make(Extra, len(l.extra)+len(extra))
	for k, v := range l.extra {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}

	out := *l
	out.extra = merged

	return &out
}

// ShowLocals returns a derived facade overriding the process-wide
// verbose-traceback default for Exception calls made through it.
func (l *Logger) ShowLocals(v bool) *Logger {
	out := *l
	out.showLocals = &v

	return &out
}

// Trace logs at trace level, joining args like Println.
func (l *Logger) Trace(args ...any) { l.emit(zerolog.TraceLevel, callSite(2), sprint(args...)) }

// Tracef logs a formatted message at trace level.
func (l *Logger) Tracef(format string, args ...any) {
	l.emit(zerolog.TraceLevel, callSite(2), fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func (l *Logger) Debug(args ...any) { l.emit(zerolog.DebugLevel, callSite(2), sprint(args...)) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.emit(zerolog.DebugLevel, callSite(2), fmt.Sprintf(format, args...))
}

// Info logs at info level.
func (l *Logger) Info(args ...any) { l.emit(zerolog.InfoLevel, callSite(2), sprint(args...)) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(zerolog.InfoLevel, callSite(2), fmt.Sprintf(format, args...))
}

// Warn logs at warn level.
func (l *Logger) Warn(args ...any) { l.emit(zerolog.WarnLevel, callSite(2), sprint(args...)) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(zerolog.WarnLevel, callSite(2), fmt.Sprintf(format, args...))
}

// Error logs at error level.
func (l *Logger) Error(args ...any) { l.emit(zerolog.ErrorLevel, callSite(2), sprint(args...)) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(zerolog.ErrorLevel, callSite(2), fmt.Sprintf(format, args...))
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(args ...any) {
	l.emit(zerolog.FatalLevel, callSite(2), sprint(args...))
	os.Exit(1)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func (l *Logger) Fatalf(format string, args ...any) {
	l.emit(zerolog.FatalLevel, callSite(2), fmt.Sprintf(format, args...))
	os.Exit(1)
}

// emit dispatches one record through the active pipeline.
func (l *Logger) emit(level zerolog.Level, site, msg string) {
	l.event(load(), level, site, false, nil, nil).Msg(msg)
}

// event assembles a record with the facade's ambient fields. A true suppress
// flag adds the transient routing field the rich console writer honors.
func (l *Logger) event(s *settings, level zerolog.Level, site string, suppress bool, err error, stack []string) *zerolog.Event {
	ev := s.root.WithLevel(level)

	if l.name != "" {
		ev = ev.Str(sink.NameKey, l.name)
	}
	if site != "" {
		ev = ev.Str(zerolog.CallerFieldName, site)
	}
	if len(l.extra) > 0 {
		ev = ev.Dict(sink.ExtraKey, zerolog.Dict().Fields(map[string]any(l.extra)))
	}
	if err != nil {
		ev = ev.Str(zerolog.ErrorFieldName, err.Error())
	}
	if len(stack) > 0 {
		ev = ev.Strs(sink.StackKey, stack)
	}
	if suppress {
		ev = ev.Bool(sink.SuppressKey, true)
	}

	return ev
}

// callSite captures the caller's file:line at the facade's public boundary,
// so records point at user code rather than facade internals.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}

	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// sprint joins Println-style args with spaces, without the trailing newline.
func sprint(args ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
