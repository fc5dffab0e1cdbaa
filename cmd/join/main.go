// join reassembles split parts into their base files.
//
// Usage:
//
//	join <path>... [--dry-run] [--rm] [-y|--yes] [--backend=native|system] [-v...]
//
// Paths may be parts, directories or glob patterns; every part is mapped to
// its base file and each base is joined once. When the base file already
// exists the joined bytes are compared against it before anything is
// replaced.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/splitfile/cmd/internal/cli"
	"github.com/danmuck/splitfile/src/config"
	"github.com/danmuck/splitfile/src/joiner"
	"github.com/danmuck/splitfile/src/prompt"
	"github.com/danmuck/splitfile/src/report"
	logs "github.com/danmuck/smplog"
	"github.com/spf13/pflag"
)

const synopsis = "join <path>... [--dry-run] [--rm] [-y|--yes] [--backend=native|system] [-v...] [-h|--help]"

type options struct {
	cli.Common
	Remove bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := cli.NewFlagSet("join")
	opts.Common.Bind(fs)
	fs.BoolVar(&opts.Remove, "rm", false, "delete the split parts after a successful or identical join")
	return fs
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts)

	if cli.WantsHelp(args) {
		cli.Usage(stdout, synopsis, fs)
		return report.ExitOK
	}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		cli.Usage(stderr, synopsis, fs)
		return report.ExitNoPaths
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintf(stderr, "Error: %v\n\n", joiner.ErrNoPaths)
		cli.Usage(stderr, synopsis, fs)
		return report.ExitNoPaths
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return report.ExitNoPaths
	}

	session, err := cli.Open("join", cfg, cfgPath, opts.Common)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return report.ExitNoPaths
	}
	defer session.Close()

	// -y skips confirmations only; a verification mismatch is still asked
	// on the terminal.
	j := &joiner.Joiner{
		DryRun:          opts.DryRun,
		RemoveAfterJoin: opts.Remove || cfg.Join.RemoveAfterJoin,
		AssumeYes:       opts.AssumeYes || cfg.Join.AssumeYes,
		Verbose:         opts.Verbose > 0,
		TempSuffix:      cfg.Join.TempSuffix,
		Console:         session.Console,
		Ops:             session.Ops,
		Prompter:        prompt.NewTerminal(stdin, session.Console),
		Journal:         session.Journal,
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	summary, err := j.Run(ctx, paths)
	summary.Render("join")
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			logs.Warnf("interrupted: %v", err)
			return report.ExitQuit
		}
		logs.Errorf(err, "join")
		return report.ExitNoPaths
	}
	return summary.ExitCode()
}
