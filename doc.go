// Package standardlogger configures a process-wide logging pipeline that fans
// each record out to a console renderer and an optional rotating file sink.
//
// One Setup call wires everything from a single Config: the console side is
// either rich (pterm panels, progress bars, and decorated tracebacks) or a
// plain zerolog console writer, while the file side is a lumberjack-rotated
// sink writing either JSON lines or caller-templated text.
//
// Key behaviors
//   - Self-healing configuration: invalid level values are replaced with
//     documented defaults plus a warning; Setup never fails on bad levels.
//   - Degrading setup: unwritable paths or sink failures disable file logging
//     with a diagnostic instead of aborting. Only the total absence of a
//     writable location (or broken wiring) returns a *SetupError.
//   - Replace, don't layer: calling Setup again swaps the whole pipeline;
//     every Logger instance, existing or future, sees the latest settings.
//   - Facade extras: Panel, Rule, and Progress render via pterm when the rich
//     console is enabled and fall back to ASCII approximations on stderr
//     otherwise. Exception coordinates console traceback rendering so a
//     traceback is printed exactly once.
//
// Typical usage
//
//	cfg := standardlogger.DefaultConfig()
//	cfg.AppName = "myapp"
//	enabled, path, err := standardlogger.Setup(cfg)
//	if err != nil {
//		panic(err)
//	}
//	log := standardlogger.New("myapp.worker")
//	log.Infof("file logging: %v (%s)", enabled, path)
package standardlogger
