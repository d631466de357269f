package ascii

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClocks pins the tracker's clocks so frames and elapsed time are
// deterministic.
func fixedClocks(tr *Tracker, at time.Time, elapsed time.Duration) {
	tr.now = func() time.Time { return at }
	tr.mono = func() time.Duration { return elapsed }
}

func lastDrawnLine(buf *bytes.Buffer) string {
	chunks := strings.Split(buf.String(), "\r")

	return chunks[len(chunks)-1]
}

func TestTrackerDeterminateBar(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Crunching")
	fixedClocks(tr, time.Unix(0, 0), 2*time.Second)

	tr.AddTask("Crunching", 10)
	tr.Advance(5)

	line := lastDrawnLine(&buf)
	assert.Contains(t, line, "Crunching:")
	assert.Contains(t, line, "50.0%")
	assert.Contains(t, line, "(2.0s)")
	assert.Contains(t, line, "█")
	assert.Contains(t, line, "░")
}

func TestTrackerAdvancesAccumulate(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Work")

	tr.AddTask("Work", 12)
	tr.Advance(4)
	tr.Advance(4)
	tr.Advance(4)

	assert.Equal(t, float64(12), tr.Current())
	assert.True(t, tr.Finished())
}

func TestTrackerFinishedRequiresTotal(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Open-ended")

	tr.AddTask("Open-ended", -1)
	tr.Advance(100)

	assert.False(t, tr.Finished())
}

func TestTrackerZeroTotalIsInstantlyComplete(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Nothing to do")
	fixedClocks(tr, time.Unix(0, 0), time.Second)

	tr.AddTask("Nothing to do", 0)

	assert.True(t, tr.Finished())
	assert.Contains(t, lastDrawnLine(&buf), "100.0%")
	assert.NotContains(t, lastDrawnLine(&buf), "░")
}

func TestTrackerOverflowClampsAtFull(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Over")
	fixedClocks(tr, time.Unix(0, 0), time.Second)

	tr.AddTask("Over", 10)
	tr.Advance(25)

	assert.Contains(t, lastDrawnLine(&buf), "100.0%")
}

func TestTrackerSpinnerFrames(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Waiting")

	frames := make(map[string]bool)
	for i := 0; i < 4; i++ {
		fixedClocks(tr, time.UnixMilli(int64(i)*250), time.Second)
		tr.Advance(0)
		line := lastDrawnLine(&buf)
		start := strings.Index(line, "[")
		require.GreaterOrEqual(t, start, 0)
		frames[line[start:start+2]] = true
	}

	assert.Len(t, frames, 4, "each 250ms tick shows a different frame")
}

func TestTrackerSetTotalSwitchesMode(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Discover")
	fixedClocks(tr, time.Unix(0, 0), time.Second)

	tr.AddTask("Discover", -1)
	assert.False(t, tr.Finished())

	tr.SetTotal(4)
	tr.Advance(4)

	assert.True(t, tr.Finished())
	assert.Contains(t, lastDrawnLine(&buf), "100.0%")
}

func TestTrackerSetDescriptionRedraws(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Before")

	tr.AddTask("Before", 10)
	tr.SetDescription("After")

	assert.Contains(t, lastDrawnLine(&buf), "After:")
}

func TestTrackerCloseLeavesStreamClean(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "Done soon")

	tr.AddTask("Done soon", 2)
	tr.Advance(2)
	tr.Close()

	assert.Equal(t, "", lastDrawnLine(&buf), "the final carriage return leaves a blank line")
}

func TestTrackerEmptyDescriptionDefaults(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker(&buf, "")

	tr.AddTask("", 1)

	assert.Contains(t, lastDrawnLine(&buf), "Progress:")
}
