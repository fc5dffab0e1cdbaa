// Package splitter decides, file by file, whether a file should be cut
// into numbered chunks, asks the user, and delegates the cutting to a
// fileops backend.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danmuck/splitfile/src/chunkspec"
	"github.com/danmuck/splitfile/src/console"
	"github.com/danmuck/splitfile/src/discover"
	"github.com/danmuck/splitfile/src/fileops"
	"github.com/danmuck/splitfile/src/journal"
	"github.com/danmuck/splitfile/src/naming"
	"github.com/danmuck/splitfile/src/prompt"
	"github.com/danmuck/splitfile/src/report"
	"github.com/dustin/go-humanize"
)

type Outcome string

const (
	SkippedIsPart       Outcome = "skipped-is-part"
	SkippedTooSmall     Outcome = "skipped-too-small"
	SkippedAlreadySplit Outcome = "skipped-already-split"
	Split               Outcome = "confirmed-and-split"
	Declined            Outcome = "declined"
	DryRun              Outcome = "dry-run-noop"
	Failed              Outcome = "failed"
)

var ErrNoPaths = errors.New("no paths provided")

// Result is the terminal state of one file.
type Result struct {
	Path     string
	Outcome  Outcome
	Decision prompt.Decision
	Parts    []string
	Err      error
}

type Splitter struct {
	Spec     chunkspec.Spec
	DryRun   bool
	Console  console.Console
	Ops      fileops.FileOps
	Prompter prompt.Prompter
	Journal  *journal.Journal
}

func (s *Splitter) journal() *journal.Journal {
	if s.Journal == nil {
		return journal.Nop()
	}
	return s.Journal
}

// SplitFile runs the split decision for one file. It never exits the
// process; a quit answer comes back as Result.Decision == prompt.Quit.
func (s *Splitter) SplitFile(ctx context.Context, path string) (res Result) {
	res = Result{Path: path, Decision: prompt.Continue}
	var timer journal.PhaseTimer
	var size int64
	defer func() {
		s.journal().Record(journal.Entry{
			Path:     path,
			Outcome:  string(res.Outcome),
			Parts:    len(res.Parts),
			Bytes:    size,
			Decision: res.Decision.String(),
			Timer:    timer,
			Err:      res.Err,
		})
	}()

	if naming.IsSplitPart(path) {
		s.Console.Render(console.Debug("%s is a split part, skipping", path))
		res.Outcome = SkippedIsPart
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		return s.fail(res, fmt.Errorf("stat %s: %w", path, err))
	}
	size = info.Size()
	normalized := s.Spec.Normalize(size)

	if !s.Spec.Exceeds(size) {
		s.Console.Render(console.Info("%q size is <= %s; skipping (%.2f%s)", path, s.Spec, normalized, s.Spec.Unit))
		res.Outcome = SkippedTooSmall
		return res
	}

	if splits := naming.SplitsOf(path); len(splits) > 0 {
		s.Console.Render(console.Info("%q already split to %d splits; skipping", path, len(splits)))
		res.Outcome = SkippedAlreadySplit
		return res
	}

	width := s.Spec.SuffixWidth(size)
	count := s.Spec.PartCount(size)
	first := naming.PartName(path, 0, width)
	last := naming.PartName(path, int(count-1), width)

	decision := s.Prompter.ContinueOrQuit(console.Info(
		"splitting %q (%.2f%s, %s) into %d parts of %s: %s .. %s",
		path, normalized, s.Spec.Unit, humanize.Bytes(uint64(size)), count, s.Spec, first, last,
	))
	if decision != prompt.Continue {
		res.Outcome = Declined
		res.Decision = decision
		return res
	}

	if s.DryRun {
		s.Console.Render(console.Info("Dry run; would have split %q into %d parts (suffix width %d)", path, count, width))
		res.Outcome = DryRun
		return res
	}

	timer.Start(journal.PhaseChunk)
	parts, err := s.Ops.Chunk(ctx, path, s.Spec.Bytes(), width)
	timer.Stop(err != nil)
	if err != nil {
		return s.fail(res, fmt.Errorf("split %s: %w", path, err))
	}

	res.Parts = parts
	res.Outcome = Split
	s.Console.Render(console.Success("split %q into %d parts of %s", path, len(parts), s.Spec))
	return res
}

// fail reports err and lets the user decide whether to keep going.
func (s *Splitter) fail(res Result, err error) Result {
	res.Outcome = Failed
	res.Err = err
	res.Decision = s.Prompter.QuitOrNo(console.Error(err, "FAILED: %q", res.Path))
	return res
}

// Run splits every file named by args. Each argument is expanded on its
// own; a file named twice is checked twice, and the second check finds it
// already split.
func (s *Splitter) Run(ctx context.Context, args []string) (*report.Summary, error) {
	summary := report.NewSummary()
	if len(args) == 0 {
		return summary, ErrNoPaths
	}

	for _, arg := range args {
		files, err := discover.Expand(arg)
		if err != nil {
			summary.Unresolved++
			if s.Prompter.QuitOrNo(console.Warning("%v. skipping", err)) == prompt.Quit {
				summary.Quit = true
				return summary, nil
			}
			continue
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			res := s.SplitFile(ctx, file)
			summary.Add(string(res.Outcome))
			if res.Decision == prompt.Quit {
				summary.Quit = true
				return summary, nil
			}
		}
	}
	return summary, nil
}
