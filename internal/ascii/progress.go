package ascii

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	barWidth     = 30
	spinnerChars = `|/-\`
)

// Tracker draws a single-line progress indicator, redrawing in place via
// carriage returns. One task at a time: AddTask replaces the current one.
type Tracker struct {
	mu          sync.Mutex
	w           io.Writer
	description string
	total       float64
	hasTotal    bool
	current     float64
	lastLen     int
	start       time.Time

	// Injectable clocks keep spinner frames and elapsed time testable.
	now  func() time.Time
	mono func() time.Duration
}

// NewTracker creates a tracker with an initial description and draws nothing
// until AddTask or Update is called.
func NewTracker(w io.Writer, description string) *Tracker {
	if description == "" {
		description = "Progress"
	}

	start := time.Now()

	return &Tracker{
		w:           w,
		description: description,
		start:       start,
		now:         time.Now,
		mono:        func() time.Duration { return time.Since(start) },
	}
}

// AddTask configures the single tracked task and draws the initial line.
// A negative total means indeterminate (spinner). Returns the task id,
// always 0.
func (t *Tracker) AddTask(description string, total float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if description != "" {
		t.description = description
	}
	t.hasTotal = total >= 0
	t.total = total
	t.current = 0

	t.redraw()

	return 0
}

// Advance adds to the accumulated amount and redraws.
func (t *Tracker) Advance(n float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current += n
	t.redraw()
}

// SetTotal changes the total (negative = indeterminate) and redraws.
func (t *Tracker) SetTotal(total float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hasTotal = total >= 0
	t.total = total
	t.redraw()
}

// SetDescription changes the label and redraws.
func (t *Tracker) SetDescription(description string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.description = description
	t.redraw()
}

// Current returns the accumulated amount.
func (t *Tracker) Current() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.current
}

// Finished reports whether a total was set and has been reached.
func (t *Tracker) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.finished()
}

func (t *Tracker) finished() bool {
	return t.hasTotal && t.current >= t.total
}

// Close forces a final redraw when determinate progress is complete, then
// clears the line entirely, leaving the stream clean. Safe to defer.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished() {
		t.redraw()
	}

	fmt.Fprint(t.w, "\r"+strings.Repeat(" ", t.lastLen)+"\r")
	t.lastLen = 0
}

// redraw recomputes the line and overwrites the previous one: carriage
// return, blank out the old length, carriage return, new line. Guarantees no
// residue when the new line is shorter. Caller holds the lock.
func (t *Tracker) redraw() {
	elapsed := t.mono().Seconds()

	var bar, progress string
	switch {
	case t.hasTotal && t.total > 0:
		clamped := math.Max(0, math.Min(t.current, t.total))
		percent := clamped / t.total * 100
		filled := int(math.Ceil(barWidth * percent / 100))
		bar = "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
		progress = fmt.Sprintf("%.1f%% (%.1fs)", percent, elapsed)
	case t.hasTotal:
		// Zero total counts as instantly complete.
		bar = "[" + strings.Repeat("█", barWidth) + "]"
		progress = fmt.Sprintf("100.0%% (%.1fs)", elapsed)
	default:
		frame := spinnerChars[int(t.now().UnixMilli()/250)%len(spinnerChars)]
		bar = "[" + string(frame) + "]"
		progress = fmt.Sprintf("(%.1fs)", elapsed)
	}

	line := strings.TrimSpace(fmt.Sprintf("%s: %s %s", t.description, bar, progress))

	fmt.Fprint(t.w, "\r"+strings.Repeat(" ", t.lastLen)+"\r"+line)
	t.lastLen = runewidth.StringWidth(line)
}
