// split cuts files larger than the chunk size into numbered parts.
//
// Usage:
//
//	split <path>... [-b|--bytes=SIZE] [--dry-run] [-y|--yes] [--backend=native|system] [-v...]
//
// Paths may be files, directories or glob patterns. SIZE is an integer with
// an optional B, KB, MB or GB suffix (decimal units); the default is 49MB.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/splitfile/cmd/internal/cli"
	"github.com/danmuck/splitfile/src/chunkspec"
	"github.com/danmuck/splitfile/src/config"
	"github.com/danmuck/splitfile/src/prompt"
	"github.com/danmuck/splitfile/src/report"
	"github.com/danmuck/splitfile/src/splitter"
	logs "github.com/danmuck/smplog"
	"github.com/spf13/pflag"
)

const synopsis = "split <path>... [-b|--bytes=SIZE] [--dry-run] [-y|--yes] [--backend=native|system] [-v...] [-h|--help]"

type options struct {
	cli.Common
	Bytes string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := cli.NewFlagSet("split")
	opts.Common.Bind(fs)
	fs.StringVarP(&opts.Bytes, "bytes", "b", chunkspec.Default, "chunk size and split threshold, e.g. 49MB, 10KB, 65536")
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
		fmt.Fprintf(stderr, "Error: %v\n\n", splitter.ErrNoPaths)
		cli.Usage(stderr, synopsis, fs)
		return report.ExitNoPaths
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return report.ExitNoPaths
	}

	sizeText := cfg.Split.Bytes
	if fs.Changed("bytes") {
		sizeText = opts.Bytes
	}
	spec, err := chunkspec.Parse(sizeText)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return report.ExitNoPaths
	}
	opts.AssumeYes = opts.AssumeYes || cfg.Split.AssumeYes

	session, err := cli.Open("split", cfg, cfgPath, opts.Common)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return report.ExitNoPaths
	}
	defer session.Close()

	var prompter prompt.Prompter = prompt.NewTerminal(stdin, session.Console)
	if opts.AssumeYes {
		prompter = prompt.Auto{Out: session.Console}
	}

	s := &splitter.Splitter{
		Spec:     spec,
		DryRun:   opts.DryRun,
		Console:  session.Console,
		Ops:      session.Ops,
		Prompter: prompter,
		Journal:  session.Journal,
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	summary, err := s.Run(ctx, paths)
	summary.Render("split")
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			logs.Warnf("interrupted: %v", err)
			return report.ExitQuit
		}
		logs.Errorf(err, "split")
		return report.ExitNoPaths
	}
	return summary.ExitCode()
}
