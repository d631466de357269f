package standardlogger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installJSON wires a raw-JSON pipeline into a buffer so tests can decode
// records structurally.
func installJSON(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	install(&settings{
		root:      zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger(),
		errStream: buf,
	})
	t.Cleanup(func() { current.Store(nil) })

	return buf
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "line: %s", line)
		out = append(out, rec)
	}

	return out
}

func TestLoggerNameTravelsWithRecords(t *testing.T) {
	buf := installJSON(t)

	New("payments").Info("charge accepted")
	Default().Info("anonymous")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 2)
	assert.Equal(t, "payments", recs[0]["name"])
	assert.NotContains(t, recs[1], "name")
}

func TestWithExtraMergesWithoutMutatingParent(t *testing.T) {
	buf := installJSON(t)

	base := New("svc").WithExtra(Extra{"request_id": "r-1", "attempt": 1})
	derived := base.WithExtra(Extra{"attempt": 2, "user": "ada"})

	derived.Info("derived")
	base.Info("base")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 2)

	derivedExtra, ok := recs[0]["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r-1", derivedExtra["request_id"])
	assert.Equal(t, float64(2), derivedExtra["attempt"])
	assert.Equal(t, "ada", derivedExtra["user"])

	baseExtra, ok := recs[1]["extra"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), baseExtra["attempt"])
	assert.NotContains(t, baseExtra, "user")
}

func TestCallSitePointsAtCallingFile(t *testing.T) {
	buf := installJSON(t)

	New("site").Info("where am I")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 1)
	caller, _ := recs[0]["caller"].(string)
	assert.True(t, strings.HasPrefix(caller, "logger_test.go:"), "caller was %q", caller)
}

func TestSeverityMethodsMapToLevels(t *testing.T) {
	buf := installJSON(t)

	log := New("lvl")
	log.Trace("t")
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 5)
	for i, want := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Equal(t, want, recs[i]["level"])
	}
}

func TestPrintlnStyleArgsJoin(t *testing.T) {
	buf := installJSON(t)

	New("fmt").Info("processed", 42, "records in", 1.5, "s")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "processed 42 records in 1.5 s", recs[0]["message"])
}

func TestFormattedVariants(t *testing.T) {
	buf := installJSON(t)

	New("fmt").Warnf("retry %d/%d in %s", 2, 5, "30s")

	recs := decodeRecords(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "retry 2/5 in 30s", recs[0]["message"])
	assert.Equal(t, "warn", recs[0]["level"])
}

func TestInstancesFollowLatestSnapshot(t *testing.T) {
	first := installJSON(t)
	log := New("longlived")

	log.Info("goes to first")

	second := &bytes.Buffer{}
	install(&settings{
		root:      zerolog.New(second).Level(zerolog.TraceLevel).With().Timestamp().Logger(),
		errStream: second,
	})

	log.Info("goes to second")

	assert.Contains(t, first.String(), "goes to first")
	assert.NotContains(t, first.String(), "goes to second")
	assert.Contains(t, second.String(), "goes to second")
}
