package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	j := New(&buf, "join")

	var timer PhaseTimer
	timer.Start(PhaseConcat)
	timer.Stop(false)
	j.Record(Entry{
		Path:     "video.mp4",
		Outcome:  "replaced",
		Parts:    3,
		Bytes:    100,
		Decision: "continue",
		Timer:    timer,
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "join", got["tool"])
	assert.Equal(t, "video.mp4", got["path"])
	assert.Equal(t, "replaced", got["outcome"])
	assert.EqualValues(t, 3, got["parts"])
	assert.Equal(t, "info", got["level"])
	assert.Contains(t, got["phases"], "concat")
}

func TestRecordError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "split").Record(Entry{Path: "a.bin", Outcome: "failed", Err: errors.New("disk full")})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got["level"])
	assert.Equal(t, "disk full", got["error"])
}

func TestOpenAppendsDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		j, err := Open(dir, "split", now)
		require.NoError(t, err)
		j.Record(Entry{Path: "a.bin", Outcome: "split"})
		require.NoError(t, j.Close())
	}

	path := filepath.Join(dir, "2026-10-19-split.log")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "\n"))
}

func TestNopDiscards(t *testing.T) {
	j := Nop()
	j.Record(Entry{Path: "a"})
	assert.Equal(t, "", j.Path())
	assert.NoError(t, j.Close())
}

func TestPhaseTimer(t *testing.T) {
	var pt PhaseTimer
	pt.Stop(false) // nothing running
	pt.Start(PhaseCompare)
	time.Sleep(time.Millisecond)
	pt.Stop(true)

	phases := pt.Phases()
	require.Len(t, phases, 1)
	assert.Equal(t, PhaseCompare, phases[0].Phase)
	assert.True(t, phases[0].Failed)
	assert.GreaterOrEqual(t, pt.Total(), time.Millisecond)
}

func TestRecordListsFailedPhases(t *testing.T) {
	var buf bytes.Buffer
	var timer PhaseTimer
	timer.Start(PhaseConcat)
	timer.Stop(false)
	timer.Start(PhaseRename)
	timer.Stop(true)
	New(&buf, "join").Record(Entry{Path: "video.mp4", Outcome: "failed", Timer: timer, Err: errors.New("rename failed")})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []any{"rename"}, got["failed_phases"])
	assert.Contains(t, got["phases"], "concat")
	assert.Contains(t, got["phases"], "rename")
}
