package standardlogger

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// maxStackDepth bounds captured call stacks.
const maxStackDepth = 32

// Exception logs err at error level with a captured stack and coordinates
// console traceback rendering so the traceback appears exactly once:
//
//   - Rich console with decorated tracebacks: the dispatched record carries
//     the suppression field (dropped by the console handler, still persisted
//     to the file sink) and the traceback is printed manually through pterm.
//   - Simple tracebacks, or plain console: the installed console handler
//     renders the traceback itself; no suppression, no manual print.
//
// A nil err logs the message with a warning about the missing exception and
// attaches nothing. The stack comes from err when it carries one
// (github.com/pkg/errors) and is captured at the call site otherwise.
func (l *Logger) Exception(err error, format string, args ...any) {
	s := load()
	site := callSite(2)
	msg := fmt.Sprintf(format, args...)

	manual := s.richConsole && !s.simpleTracebacks
	hasExc := err != nil

	if !hasExc {
		l.event(s, zerolog.WarnLevel, site, false, nil, nil).
			Msg("Exception called with nil error; logging without exception info")
		l.event(s, zerolog.ErrorLevel, site, false, nil, nil).Msg(msg)

		return
	}

	stack := stackOf(err, 2)
	l.event(s, zerolog.ErrorLevel, site, manual, err, stack).Msg(msg)

	if manual {
		show := s.showLocals
		if l.showLocals != nil {
			show = *l.showLocals
		}
		printRichTraceback(s.errStream, err, stack, show)
	}
}

// stackOf prefers the stack recorded inside err (pkg/errors) over a fresh
// capture at the call site, walking the cause chain for the deepest one.
func stackOf(err error, skip int) []string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	var deepest errors.StackTrace
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			deepest = st.StackTrace()
		}
	}

	if deepest != nil {
		frames := make([]string, 0, len(deepest))
		for _, f := range deepest {
			frames = append(frames, fmt.Sprintf("%n (%s:%d)", f, f, f))
		}

		return frames
	}

	return captureStack(skip + 1)
}

// captureStack records the current goroutine's frames above skip.
func captureStack(skip int) []string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var out []string
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, filepath.Base(frame.File), frame.Line))
		}
		if !more {
			break
		}
	}

	return out
}

// printRichTraceback renders the decorated traceback directly to the console
// stream, bypassing dispatch; it is never subject to level filtering or the
// suppression filter. Verbose mode keeps every frame with full paths;
// otherwise runtime frames are trimmed.
func printRichTraceback(w io.Writer, err error, stack []string, verbose bool) {
	header := pterm.Error
	header.Writer = w
	header.Println(err.Error())

	frames := stack
	if !verbose {
		frames = trimRuntimeFrames(stack)
	}
	if len(frames) == 0 {
		return
	}

	body := strings.Join(frames, "\n")
	box := pterm.DefaultBox.WithTitle("Traceback").WithTitleTopLeft()
	fmt.Fprintln(w, box.Sprint(body))
}

func trimRuntimeFrames(stack []string) []string {
	out := make([]string, 0, len(stack))
	for _, f := range stack {
		if strings.HasPrefix(f, "runtime.") || strings.HasPrefix(f, "testing.") {
			continue
		}
		out = append(out, f)
	}

	return out
}

// RecoverPanic is the uncaught-exception hook: defer it at the top of main
// (or a goroutine) and panics are rendered through the active traceback
// style and persisted to the file sink before the panic resumes. Arm it only
// once per scope.
//
//	defer standardlogger.RecoverPanic()
func RecoverPanic() {
	r := recover()
	if r == nil {
		return
	}

	s := load()
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", r)
	}

	stack := captureStack(3)
	Default().event(s, zerolog.FatalLevel, "", s.richConsole && !s.simpleTracebacks, err, stack).
		Msg("panic recovered by logging hook")

	if s.richConsole && !s.simpleTracebacks {
		printRichTraceback(s.errStream, err, stack, s.showLocals)
	}

	panic(r)
}
