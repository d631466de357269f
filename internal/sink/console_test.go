package sink

import (
	"bytes"
	"os"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func event(fields string) []byte {
	return []byte(`{"time":"2026-01-15T10:30:00Z",` + fields + `}`)
}

func TestPtermWriterLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.WarnLevel, TimeFormat: "15:04:05"}

	_, err := w.WriteLevel(zerolog.InfoLevel, event(`"level":"info","message":"below threshold"`))
	require.NoError(t, err)
	_, err = w.WriteLevel(zerolog.ErrorLevel, event(`"level":"error","message":"above threshold"`))
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "below threshold")
	assert.Contains(t, out, "above threshold")
}

func TestPtermWriterDropsSuppressedRecords(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel, DropSuppressed: true}

	n, err := w.WriteLevel(zerolog.ErrorLevel,
		event(`"level":"error","message":"hidden","suppress_console":true`))
	require.NoError(t, err)
	assert.Positive(t, n, "dropped records still report success to zerolog")
	assert.Empty(t, buf.String())
}

func TestPtermWriterKeepsSuppressedWhenNotDropping(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel, DropSuppressed: false}

	_, err := w.WriteLevel(zerolog.ErrorLevel,
		event(`"level":"error","message":"visible","suppress_console":true`))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "visible")
}

func TestPtermWriterLineContents(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel, TimeFormat: "15:04:05"}

	_, err := w.WriteLevel(zerolog.InfoLevel, event(
		`"level":"info","name":"payments","message":"charge accepted",`+
			`"extra":{"user":"ada","amount":12}`))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "10:30:00")
	assert.Contains(t, out, "payments:")
	assert.Contains(t, out, "charge accepted")
	assert.Contains(t, out, "amount=12")
	assert.Contains(t, out, "user=ada")
}

func TestPtermWriterRendersStackInSimpleMode(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel, DropSuppressed: false}

	_, err := w.WriteLevel(zerolog.ErrorLevel, event(
		`"level":"error","message":"flush failed","error":"disk offline",`+
			`"stack":["main.flush (main.go:10)","main.main (main.go:4)"]`))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "error=disk offline")
	assert.Contains(t, out, "    main.flush (main.go:10)")
	assert.Contains(t, out, "    main.main (main.go:4)")
}

func TestPtermWriterSkipsStackInDecoratedMode(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel, DropSuppressed: true}

	_, err := w.WriteLevel(zerolog.ErrorLevel, event(
		`"level":"error","message":"flush failed","stack":["main.flush (main.go:10)"]`))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "main.flush",
		"decorated mode leaves traceback rendering to the facade")
}

func TestPtermWriterPassesThroughNonJSON(t *testing.T) {
	var buf bytes.Buffer
	w := &PtermWriter{Out: &buf, Level: zerolog.TraceLevel}

	_, err := w.WriteLevel(zerolog.NoLevel, []byte("raw line\n"))
	require.NoError(t, err)
	assert.Equal(t, "raw line\n", buf.String())
}

func TestLeveledFiltersBelowMinimum(t *testing.T) {
	var buf bytes.Buffer
	l := &Leveled{W: &buf, Min: zerolog.InfoLevel}

	_, err := l.WriteLevel(zerolog.DebugLevel, []byte("debug\n"))
	require.NoError(t, err)
	_, err = l.WriteLevel(zerolog.InfoLevel, []byte("info\n"))
	require.NoError(t, err)

	assert.Equal(t, "info\n", buf.String())
}

func TestPrinterForLevels(t *testing.T) {
	tests := []struct {
		level  zerolog.Level
		prefix string
	}{
		{zerolog.TraceLevel, pterm.Debug.Prefix.Text},
		{zerolog.DebugLevel, pterm.Debug.Prefix.Text},
		{zerolog.InfoLevel, pterm.Info.Prefix.Text},
		{zerolog.WarnLevel, pterm.Warning.Prefix.Text},
		{zerolog.ErrorLevel, pterm.Error.Prefix.Text},
		{zerolog.FatalLevel, pterm.Error.Prefix.Text},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.prefix, printerFor(tt.level).Prefix.Text)
		})
	}
}
