package standardlogger

import (
	"fmt"
	"io"
	"sync"

	"github.com/pterm/pterm"

	"github.com/klugman-yanai/standard-logger/internal/ascii"
)

// Rule title alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// PanelOption configures a Panel call.
type PanelOption func(*panelOpts)

type panelOpts struct {
	title   string
	compact bool
}

// WithTitle sets the panel title.
func WithTitle(title string) PanelOption {
	return func(o *panelOpts) { o.title = title }
}

// Compact makes the panel width adapt to its content instead of using the
// fixed default.
func Compact() PanelOption {
	return func(o *panelOpts) { o.compact = true }
}

// Panel prints content in a bordered box: a pterm box (tables rendered in
// full) when the rich console is active, otherwise the ASCII fallback, which
// summarizes complex renderables.
func (l *Logger) Panel(content any, opts ...PanelOption) {
	var o panelOpts
	for _, opt := range opts {
		opt(&o)
	}

	s := load()
	if !s.richConsole {
		ascii.Panel(s.errStream, content, ascii.PanelOptions{Title: o.title, Compact: o.compact})

		return
	}

	text := richPanelContent(content)
	box := pterm.DefaultBox
	if o.title != "" {
		box = *box.WithTitle(o.title).WithTitleTopLeft()
	}
	fmt.Fprintln(s.errStream, box.Sprint(text))
}

func richPanelContent(content any) string {
	if td, ok := content.(pterm.TableData); ok {
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(td).Srender()
		if err == nil {
			return rendered
		}
	}

	return ascii.Stringify(content)
}

// RuleOption configures a Rule call.
type RuleOption func(*ruleOpts)

type ruleOpts struct {
	char  rune
	align string
}

// WithRuleChar sets the fill character.
func WithRuleChar(char rune) RuleOption {
	return func(o *ruleOpts) { o.char = char }
}

// WithAlign sets the title alignment: AlignLeft, AlignCenter, or AlignRight.
// Unknown values center.
func WithAlign(align string) RuleOption {
	return func(o *ruleOpts) { o.align = align }
}

// Rule prints a titled horizontal line sized to the terminal width.
func (l *Logger) Rule(title string, opts ...RuleOption) {
	o := ruleOpts{char: '─', align: AlignCenter}
	for _, opt := range opts {
		opt(&o)
	}

	s := load()
	if !s.richConsole {
		ascii.Rule(s.errStream, title, o.char, o.align)

		return
	}

	line := ascii.RuleString(ascii.TerminalWidth(), title, o.char, o.align)
	fmt.Fprintln(s.errStream, pterm.FgCyan.Sprint(line))
}

// ProgressOption configures a Progress scope.
type ProgressOption func(*progressOpts)

type progressOpts struct {
	description string
	disabled    bool
}

// WithDescription sets the initial task description.
func WithDescription(description string) ProgressOption {
	return func(o *progressOpts) { o.description = description }
}

// Disabled returns a no-op progress scope.
func Disabled() ProgressOption {
	return func(o *progressOpts) { o.disabled = true }
}

// Progress opens a scoped progress tracker: a pterm progress bar or spinner
// when the rich console is active, otherwise a single-line ASCII indicator
// on stderr. Callers must Stop it (defer is fine); Stop leaves the stream
// clean. One task at a time: AddTask replaces any running task.
func (l *Logger) Progress(opts ...ProgressOption) *Progress {
	o := progressOpts{description: "Processing..."}
	for _, opt := range opts {
		opt(&o)
	}

	s := load()

	return &Progress{
		rich:        s.richConsole,
		disabled:    o.disabled,
		stream:      s.errStream,
		description: o.description,
	}
}

// UpdateOption mutates a running task.
type UpdateOption func(*updateOpts)

type updateOpts struct {
	advance     *float64
	total       *float64
	description *string
}

// Advance adds n to the accumulated amount.
func Advance(n float64) UpdateOption {
	return func(o *updateOpts) { o.advance = &n }
}

// Total replaces the task total; negative means indeterminate.
func Total(n float64) UpdateOption {
	return func(o *updateOpts) { o.total = &n }
}

// Description replaces the task label.
func Description(d string) UpdateOption {
	return func(o *updateOpts) { o.description = &d }
}

// Progress tracks one task on one line. The zero value is unusable; obtain
// instances from Logger.Progress.
type Progress struct {
	mu          sync.Mutex
	rich        bool
	disabled    bool
	stream      io.Writer
	description string

	total    float64
	hasTotal bool
	current  float64
	stopped  bool

	bar     *pterm.ProgressbarPrinter
	spin    *pterm.SpinnerPrinter
	tracker *ascii.Tracker
}

// AddTask registers the single tracked task and starts drawing it. A
// negative total means indeterminate. A second call replaces the running
// task rather than adding a concurrent one. Returns the task id, always 0.
func (p *Progress) AddTask(description string, total float64) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disabled || p.stopped {
		return 0
	}

	p.teardownLocked()

	if description != "" {
		p.description = description
	}
	p.total = total
	p.hasTotal = total >= 0
	p.current = 0

	if p.rich {
		p.startRichLocked()
	} else {
		p.tracker = ascii.NewTracker(p.stream, p.description)
		p.tracker.AddTask(p.description, total)
	}

	return 0
}

// Update applies Advance, Total, and Description changes and redraws.
func (p *Progress) Update(id int, opts ...UpdateOption) {
	_ = id // single-task tracker

	var o updateOpts
	for _, opt := range opts {
		opt(&o)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disabled || p.stopped {
		return
	}

	if o.description != nil {
		p.description = *o.description
		if p.bar != nil {
			p.bar.UpdateTitle(p.description)
		}
		if p.spin != nil {
			p.spin.UpdateText(p.description)
		}
		if p.tracker != nil {
			p.tracker.SetDescription(p.description)
		}
	}

	if o.total != nil {
		p.total = *o.total
		p.hasTotal = *o.total >= 0
		if p.rich {
			// Backend choice may flip between bar and spinner.
			p.teardownLocked()
			p.startRichLocked()
		} else if p.tracker != nil {
			p.tracker.SetTotal(*o.total)
		}
	}

	if o.advance != nil {
		p.current += *o.advance
		if p.bar != nil {
			p.bar.Add(int(*o.advance))
		}
		if p.tracker != nil {
			p.tracker.Advance(*o.advance)
		}
	}
}

// Current returns the accumulated amount.
func (p *Progress) Current() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current
}

// Finished reports whether a total was set and has been reached.
func (p *Progress) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.hasTotal && p.current >= p.total
}

// Stop tears the indicator down, leaving the stream clean. Idempotent; safe
// to defer alongside early returns and panics.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true
	p.teardownLocked()
}

func (p *Progress) startRichLocked() {
	switch {
	case p.hasTotal && p.total > 0:
		bar, err := pterm.DefaultProgressbar.
			WithTotal(int(p.total)).
			WithTitle(p.description).
			WithRemoveWhenDone(true).
			WithWriter(p.stream).
			Start()
		if err == nil {
			p.bar = bar
			if p.current > 0 {
				bar.Add(int(p.current))
			}
		}
	case p.hasTotal:
		// Zero total counts as instantly complete.
		bar, err := pterm.DefaultProgressbar.
			WithTotal(1).
			WithTitle(p.description).
			WithRemoveWhenDone(true).
			WithWriter(p.stream).
			Start()
		if err == nil {
			p.bar = bar
			bar.Increment()
		}
	default:
		spin, err := pterm.DefaultSpinner.
			WithWriter(p.stream).
			Start(p.description)
		if err == nil {
			p.spin = spin
		}
	}
}

func (p *Progress) teardownLocked() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
	if p.spin != nil {
		_ = p.spin.Stop()
		p.spin = nil
	}
	if p.tracker != nil {
		p.tracker.Close()
		p.tracker = nil
	}
}
