package standardlogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/klugman-yanai/standard-logger/internal/logpath"
	"github.com/klugman-yanai/standard-logger/internal/sink"
)

// SetupError is returned for fatal setup failures: no writable log location
// anywhere, or the pipeline could not be wired. Degrading failures (a bad
// explicit path, a sink that will not open) never surface as errors; they
// disable file logging and show up in the returned flag instead.
type SetupError struct {
	msg   string
	cause error
}

func (e *SetupError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("logger setup: %s: %v", e.msg, e.cause)
	}

	return "logger setup: " + e.msg
}

func (e *SetupError) Unwrap() error { return e.cause }

// Setup wires the process-wide pipeline from cfg and returns whether file
// logging is active and at which path. The two results are always mutually
// consistent: enabled implies a non-empty path and vice versa.
//
// Setup is idempotent: calling it again replaces the previous pipeline
// wholesale (the prior file sink is closed, nothing accumulates). It must
// not run concurrently with logging calls.
func Setup(cfg Config) (fileEnabled bool, path string, err error) {
	warnings := cfg.normalize()

	// Pre-pipeline diagnostics go through whatever pipeline is active now.
	prev := load()
	for _, w := range warnings {
		prev.root.Warn().Str(sink.NameKey, setupScope).Msg(w)
	}

	consoleLvl, _ := parseLevel(cfg.ConsoleLevel)
	fileLvl, _ := parseLevel(cfg.FileLevel)

	// Destination per the tri-state path policy.
	var fileDiag string
	switch cfg.LogFilePath {
	case FileDisabled:
		// No file sink.
	case "":
		stem, rerr := logpath.Resolve(cfg.AppName, cfg.AppAuthor)
		if rerr != nil {
			serr := &SetupError{msg: "no writable log location", cause: rerr}
			prev.root.Error().Str(sink.NameKey, setupScope).Msg(serr.Error())

			return false, "", serr
		}
		ext := ".log"
		if cfg.LogFileSerialize {
			ext = ".jsonl"
		}
		path = stem + ext
	default:
		abs, aerr := filepath.Abs(cfg.LogFilePath)
		if aerr == nil {
			aerr = os.MkdirAll(filepath.Dir(abs), 0o755)
		}
		if aerr != nil {
			fileDiag = fmt.Sprintf("log path %q unusable: %v", cfg.LogFilePath, aerr)
			path = ""
		} else {
			path = abs
		}
	}

	minLvl := consoleLvl
	if path != "" && fileLvl < minLvl {
		minLvl = fileLvl
	}

	errStream := stderrStream()

	var writers []zerolog.LevelWriter
	if cfg.UseRichConsole {
		sink.RoutePterm(errStream)
		if consoleLvl <= zerolog.DebugLevel {
			pterm.EnableDebugMessages()
		}
		writers = append(writers, &sink.PtermWriter{
			Out:            errStream,
			Level:          consoleLvl,
			TimeFormat:     cfg.ConsoleTimeFormat,
			DropSuppressed: !cfg.UseSimpleTracebacks,
		})
	} else {
		writers = append(writers, sink.NewConsole(errStream, consoleLvl, cfg.ConsoleTimeFormat))
	}

	var fileCloser *sink.FileWriter
	if path != "" {
		fw, ferr := sink.NewFile(path, sink.FileConfig{
			Level:     fileLvl,
			Serialize: cfg.LogFileSerialize,
			Format:    cfg.LogFileFormat,
			Rotation:  cfg.LogFileRotation,
			Retention: cfg.LogFileRetention,
		})
		if ferr != nil {
			fileDiag = fmt.Sprintf("file sink setup failed for %q: %v", path, ferr)
			path = ""
		} else {
			fileCloser = fw
			writers = append(writers, fw)
			fileEnabled = true
		}
	}

	multi := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		multi = append(multi, w)
	}

	s := &settings{
		richConsole:      cfg.UseRichConsole,
		simpleTracebacks: cfg.UseSimpleTracebacks,
		showLocals:       cfg.ShowLocalsOnException,
		consoleTime:      cfg.ConsoleTimeFormat,
		root:             zerolog.New(zerolog.SyncWriter(zerolog.MultiLevelWriter(multi...))).Level(minLvl).With().Timestamp().Logger(),
		errStream:        errStream,
	}
	if fileCloser != nil {
		s.fileCloser = fileCloser
	}
	install(s)

	summarize(s, cfg, fileEnabled, path, fileDiag)

	return fileEnabled, path, nil
}

// setupScope names the dedicated logger used for setup diagnostics and the
// final summary record.
const setupScope = "standardlogger.setup"

// summarize emits one self-describing record through the new pipeline, never
// through a facade wrapper that could loop back into it.
func summarize(s *settings, cfg Config, fileEnabled bool, path, fileDiag string) {
	consoleType := "plain"
	if cfg.UseRichConsole {
		consoleType = "rich"
	}

	tbType := "enhanced"
	if cfg.UseSimpleTracebacks {
		tbType = "simple"
	}

	status := "DISABLED"
	fileLevel := "n/a"
	if fileEnabled {
		status = "ENABLED"
		fileLevel = cfg.FileLevel
	}

	ev := s.root.Info().Str(sink.NameKey, setupScope).
		Str("console", consoleType+"@"+cfg.ConsoleLevel).
		Str("tracebacks", tbType).
		Str("file", status+"@"+fileLevel)
	if path != "" {
		ev = ev.Str("path", path)
	}
	ev.Msg("logger setup complete")

	if fileDiag != "" && !fileEnabled {
		s.root.Warn().Str(sink.NameKey, setupScope).Msg(fileDiag)
	}
}

func stderrStream() io.Writer {
	if w := testStream; w != nil {
		return w
	}

	return os.Stderr
}

// testStream lets package tests capture the console stream; nil in
// production.
var testStream io.Writer
