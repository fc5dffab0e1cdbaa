// Package journal appends one JSON line per processed file to a daily log
// under the journal directory, e.g. ./local/logs/2026-10-19-join.log.
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Phase names a timed step of one split or join.
type Phase string

const (
	PhaseChunk   Phase = "chunk"
	PhaseConcat  Phase = "concat"
	PhaseCompare Phase = "compare"
	PhaseRename  Phase = "rename"
)

// PhaseRecord is one finished phase.
type PhaseRecord struct {
	Phase   Phase
	Elapsed time.Duration
	Failed  bool
}

// PhaseTimer times the phases of one file. At most one phase runs at a
// time; starting a phase while another runs discards the running one.
type PhaseTimer struct {
	done    []PhaseRecord
	running Phase
	since   time.Time
}

func (pt *PhaseTimer) Start(p Phase) {
	pt.running = p
	pt.since = time.Now()
}

// Stop ends the running phase, if any.
func (pt *PhaseTimer) Stop(failed bool) {
	if pt.running == "" {
		return
	}
	pt.done = append(pt.done, PhaseRecord{Phase: pt.running, Elapsed: time.Since(pt.since), Failed: failed})
	pt.running = ""
}

// Total includes the running phase.
func (pt *PhaseTimer) Total() time.Duration {
	var total time.Duration
	for _, rec := range pt.done {
		total += rec.Elapsed
	}
	if pt.running != "" {
		total += time.Since(pt.since)
	}
	return total
}

func (pt *PhaseTimer) Phases() []PhaseRecord {
	return pt.done
}

// Entry is the record of one split or join.
type Entry struct {
	Path     string
	Outcome  string
	Parts    int
	Bytes    int64
	Decision string
	Timer    PhaseTimer
	Err      error
}

type Journal struct {
	logger zerolog.Logger
	file   *os.File
	path   string
}

// Nop returns a journal that discards everything.
func Nop() *Journal {
	return &Journal{logger: zerolog.Nop()}
}

// New writes entries to w.
func New(w io.Writer, tool string) *Journal {
	return &Journal{
		logger: zerolog.New(w).With().Timestamp().Str("tool", tool).Logger(),
	}
}

// Open appends to <dir>/<YYYY-MM-DD>-<tool>.log, creating dir if needed.
func Open(dir, tool string, now time.Time) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", now.Format("2006-01-02"), tool))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	j := New(f, tool)
	j.file = f
	j.path = path
	return j, nil
}

// Path is the file being written, or "" for in-memory and nop journals.
func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) Record(e Entry) {
	ev := j.logger.Info()
	if e.Err != nil {
		ev = j.logger.Error().Err(e.Err)
	}

	phases := zerolog.Dict()
	var failed []string
	for _, rec := range e.Timer.Phases() {
		phases = phases.Dur(string(rec.Phase), rec.Elapsed)
		if rec.Failed {
			failed = append(failed, string(rec.Phase))
		}
	}
	if len(failed) > 0 {
		ev = ev.Strs("failed_phases", failed)
	}

	ev.Str("path", e.Path).
		Str("outcome", e.Outcome).
		Int("parts", e.Parts).
		Int64("bytes", e.Bytes).
		Str("decision", e.Decision).
		Dict("phases", phases).
		Dur("total", e.Timer.Total()).
		Send()
}

func (j *Journal) Close() error {
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}
