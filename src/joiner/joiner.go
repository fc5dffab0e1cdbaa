// Package joiner reassembles split parts into their base file, verifying
// the result against any base file already on disk before replacing it.
package joiner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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
	SkippedNoSplits    Outcome = "skipped-no-splits"
	Declined           Outcome = "declined"
	FailedConcat       Outcome = "failed-concat"
	FailedDiffDeclined Outcome = "failed-diff-declined"
	IdenticalCleaned   Outcome = "identical-cleaned"
	Replaced           Outcome = "replaced"
	DryRun             Outcome = "dry-run-noop"
	Failed             Outcome = "failed"
)

const DefaultTempSuffix = ".joined"

var ErrNoPaths = errors.New("no paths provided")

// Result is the terminal state of one base file.
type Result struct {
	Base     string
	Outcome  Outcome
	Decision prompt.Decision
	Parts    []string
	Bytes    int64
	Removed  bool // parts were deleted after the join
	Err      error
}

type Joiner struct {
	DryRun          bool
	RemoveAfterJoin bool
	AssumeYes       bool
	Verbose         bool
	TempSuffix      string
	Console         console.Console
	Ops             fileops.FileOps
	Prompter        prompt.Prompter
	Journal         *journal.Journal
}

func (j *Joiner) journal() *journal.Journal {
	if j.Journal == nil {
		return journal.Nop()
	}
	return j.Journal
}

// TempPath is where the joined bytes are staged before they replace base.
func (j *Joiner) TempPath(base string) string {
	suffix := j.TempSuffix
	if suffix == "" {
		suffix = DefaultTempSuffix
	}
	return base + suffix
}

// JoinFile joins the split set of base. The staged artifact is gone by the
// time it returns, whatever the outcome.
func (j *Joiner) JoinFile(ctx context.Context, base string) (res Result) {
	res = Result{Base: base, Decision: prompt.Continue}
	var timer journal.PhaseTimer
	defer func() {
		j.journal().Record(journal.Entry{
			Path:     base,
			Outcome:  string(res.Outcome),
			Parts:    len(res.Parts),
			Bytes:    res.Bytes,
			Decision: res.Decision.String(),
			Timer:    timer,
			Err:      res.Err,
		})
	}()

	// A temp artifact left by an interrupted run is ours: never a part,
	// and gone when this join returns.
	tmp := j.TempPath(base)
	defer os.Remove(tmp)

	splits := partsOf(base, tmp)
	if len(splits) == 0 {
		res.Outcome = SkippedNoSplits
		msg := console.Warning("no splits found for %q", base)
		if info, err := os.Stat(base); err == nil {
			msg = console.Warning("no splits found for %q (%s)", base, humanize.Bytes(uint64(info.Size())))
		}
		if j.AssumeYes {
			j.Console.Render(msg)
			return res
		}
		res.Decision = j.Prompter.QuitOrNo(msg)
		return res
	}
	res.Parts = splits

	for _, part := range splits {
		info, err := os.Stat(part)
		if err != nil {
			return j.fail(res, Failed, fmt.Errorf("stat %s: %w", part, err))
		}
		res.Bytes += info.Size()
	}

	if j.Verbose {
		j.Console.Render(console.Info("split parts of %q:\n  %s", base, strings.Join(splits, "\n  ")))
	}

	confirm := console.Info("joining %d parts (%s) into %q", len(splits), humanize.Bytes(uint64(res.Bytes)), base)
	if odd := unnumbered(splits); len(odd) > 0 {
		confirm = console.Warning(
			"joining %d parts (%s) into %q; these are not numbered parts and will be joined too:\n  %s",
			len(splits), humanize.Bytes(uint64(res.Bytes)), base, strings.Join(odd, "\n  "),
		)
	}
	if j.AssumeYes {
		if confirm.Level == console.LevelWarning {
			j.Console.Render(confirm)
		}
	} else {
		decision := j.Prompter.ContinueOrQuit(confirm)
		if decision != prompt.Continue {
			res.Outcome = Declined
			res.Decision = decision
			return res
		}
	}

	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return j.fail(res, Failed, fmt.Errorf("remove stale %s: %w", tmp, err))
	}

	timer.Start(journal.PhaseConcat)
	_, err := j.Ops.Concat(ctx, splits, tmp)
	timer.Stop(err != nil)
	if err != nil {
		return j.fail(res, FailedConcat, fmt.Errorf("join %s: %w", base, err))
	}

	existing, err := os.Stat(base)
	switch {
	case err == nil && !existing.Mode().IsRegular():
		return j.fail(res, Failed, fmt.Errorf("%s exists and is not a regular file", base))
	case err == nil:
		timer.Start(journal.PhaseCompare)
		same, err := j.Ops.Compare(ctx, base, tmp)
		timer.Stop(err != nil)
		if err != nil {
			return j.fail(res, Failed, fmt.Errorf("compare %s: %w", base, err))
		}
		if same {
			j.Console.Render(console.Success("%q is identical to its %d joined parts", base, len(splits)))
			res.Outcome = IdenticalCleaned
			return j.cleanup(res)
		}
		decision := j.Prompter.ContinueOrQuit(console.Warning(
			"%q differs from its joined parts; continue to replace it", base,
		))
		if decision != prompt.Continue {
			res.Outcome = FailedDiffDeclined
			res.Decision = decision
			return res
		}
	case !errors.Is(err, os.ErrNotExist):
		return j.fail(res, Failed, fmt.Errorf("stat %s: %w", base, err))
	}

	if j.DryRun {
		j.Console.Render(console.Info("Dry run; would have joined %d parts into %q", len(splits), base))
		res.Outcome = DryRun
		return res
	}

	timer.Start(journal.PhaseRename)
	err = os.Rename(tmp, base)
	timer.Stop(err != nil)
	if err != nil {
		return j.fail(res, Failed, fmt.Errorf("replace %s: %w", base, err))
	}

	j.Console.Render(console.Success("joined %d parts into %q (%s)", len(splits), base, humanize.Bytes(uint64(res.Bytes))))
	res.Outcome = Replaced
	return j.cleanup(res)
}

// partsOf is the split set of base without the temp artifact tmp.
func partsOf(base, tmp string) []string {
	tmp = filepath.Clean(tmp)
	var parts []string
	for _, path := range naming.SplitsOf(base) {
		if filepath.Clean(path) != tmp {
			parts = append(parts, path)
		}
	}
	return parts
}

// unnumbered returns the parts whose suffix is not all digits, such as a
// subtitle file sitting next to its video.
func unnumbered(parts []string) []string {
	var odd []string
	for _, part := range parts {
		if !naming.IsSplitPart(part) {
			odd = append(odd, part)
		}
	}
	return odd
}

// cleanup deletes the parts of a finished join when asked to.
func (j *Joiner) cleanup(res Result) Result {
	if !j.RemoveAfterJoin || j.DryRun {
		return res
	}

	var errs []error
	for _, part := range res.Parts {
		if err := os.Remove(part); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return j.fail(res, res.Outcome, fmt.Errorf("remove parts of %s: %w", res.Base, err))
	}
	res.Removed = true
	j.Console.Render(console.Debug("removed %d parts of %q", len(res.Parts), res.Base))
	return res
}

// fail reports err and lets the user decide whether to keep going.
func (j *Joiner) fail(res Result, outcome Outcome, err error) Result {
	res.Outcome = outcome
	res.Err = err
	res.Decision = j.Prompter.QuitOrNo(console.Error(err, "FAILED: %q", res.Base))
	return res
}

// Resolve expands every argument and folds the files into unique bases.
// It stops early, reporting quit, when the user quits on an unresolvable
// argument.
func (j *Joiner) Resolve(args []string, summary *report.Summary) (*discover.BaseSet, bool) {
	bases := discover.NewBaseSet()
	for _, arg := range args {
		files, err := discover.Expand(arg)
		if err != nil {
			summary.Unresolved++
			if j.Prompter.QuitOrNo(console.Warning("%v. skipping", err)) == prompt.Quit {
				return bases, true
			}
			continue
		}
		for _, file := range files {
			bases.Add(file)
		}
	}
	return bases, false
}

// Run joins each distinct base named by args once, in sorted order.
func (j *Joiner) Run(ctx context.Context, args []string) (*report.Summary, error) {
	summary := report.NewSummary()
	if len(args) == 0 {
		return summary, ErrNoPaths
	}

	bases, quit := j.Resolve(args, summary)
	if quit {
		summary.Quit = true
		return summary, nil
	}

	for _, base := range bases.Sorted() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := j.JoinFile(ctx, base)
		summary.Add(string(res.Outcome))
		if res.Decision == prompt.Quit {
			summary.Quit = true
			return summary, nil
		}
	}
	return summary, nil
}
