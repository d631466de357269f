package standardlogger

import (
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// settings is the immutable snapshot of one Setup call. Every Logger reads
// the current snapshot at call time, so the latest Setup is authoritative for
// all existing and future instances without re-wiring any of them.
type settings struct {
	richConsole      bool
	simpleTracebacks bool
	showLocals       bool
	consoleTime      string

	root      zerolog.Logger
	errStream io.Writer

	// fileCloser tears down the previous file sink when a new Setup replaces
	// the pipeline.
	fileCloser io.Closer
}

var current atomic.Pointer[settings]

// load returns the active snapshot, falling back to a plain stderr console at
// info level when Setup was never called.
func load() *settings {
	if s := current.Load(); s != nil {
		return s
	}

	s := defaultSettings()
	if current.CompareAndSwap(nil, s) {
		return s
	}

	return current.Load()
}

func defaultSettings() *settings {
	out := stderrStream()
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: DefaultConsoleTimeFormat}

	return &settings{
		consoleTime: DefaultConsoleTimeFormat,
		root:        zerolog.New(cw).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
		errStream:   out,
	}
}

// install publishes a new snapshot and closes the file sink of the one it
// replaces, so repeated Setup calls never accumulate sinks.
func install(s *settings) {
	prev := current.Swap(s)
	if prev != nil && prev.fileCloser != nil {
		_ = prev.fileCloser.Close()
	}
}
