// Package cli holds the start-up steps shared by the split and join
// binaries: help detection, common flags, logging, config, journal and
// backend selection.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/splitfile/cmd/internal/logcfg"
	"github.com/danmuck/splitfile/src/config"
	"github.com/danmuck/splitfile/src/console"
	"github.com/danmuck/splitfile/src/fileops"
	"github.com/danmuck/splitfile/src/journal"
	"github.com/danmuck/splitfile/src/prompt"
	logs "github.com/danmuck/smplog"
	"github.com/spf13/pflag"
)

// WantsHelp reports whether usage should be printed instead of running:
// -h, or any argument that contains "help".
func WantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || strings.Contains(arg, "help") {
			return true
		}
	}
	return false
}

// Common are the flags both tools accept.
type Common struct {
	DryRun    bool
	AssumeYes bool
	Backend   string
	Verbose   int
}

func (c *Common) Bind(fs *pflag.FlagSet) {
	fs.BoolVar(&c.DryRun, "dry-run", false, "report what would happen without touching any file")
	fs.BoolVarP(&c.AssumeYes, "yes", "y", false, "answer yes to confirmation prompts")
	fs.StringVar(&c.Backend, "backend", "", "file operations backend: native or system")
	fs.CountVarP(&c.Verbose, "verbose", "v", "increase verbosity (repeatable)")
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func NewFlagSet(tool string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(tool, pflag.ContinueOnError)
	fs.SetInterspersed(true)
	fs.SetOutput(io.Discard)
	return fs
}

// Usage writes the synopsis and flag defaults of tool to w.
func Usage(w io.Writer, synopsis string, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s\n\n", synopsis)
	fmt.Fprint(w, fs.FlagUsages())
}

// Session is everything a run needs once flags and config are settled.
type Session struct {
	Tool       string
	Config     config.Config
	ConfigPath string
	Console    console.Console
	Ops        fileops.FileOps
	Journal    *journal.Journal
}

// Open configures logging and builds the backend and journal for tool.
// backend overrides the configured one when non-empty.
func Open(tool string, cfg config.Config, configPath string, common Common) (*Session, error) {
	logCfg, logSource := logcfg.Load()
	logs.Configure(logCfg)
	out := console.Console{Verbosity: common.Verbose}
	if logSource != "" {
		out.Render(console.Debug("logging config: %s", logSource))
	}
	if configPath != "" {
		out.Render(console.Debug("splitfile config: %s", configPath))
	}

	backend := cfg.Ops.Backend
	if common.Backend != "" {
		backend = common.Backend
	}
	ops, err := fileops.New(backend, fileops.Options{
		Progress: cfg.Ops.Progress && prompt.Interactive(os.Stderr),
	})
	if err != nil {
		return nil, err
	}

	j := journal.Nop()
	if cfg.Journal.Enabled && !common.DryRun {
		j, err = journal.Open(cfg.Journal.Dir, tool, time.Now())
		if err != nil {
			return nil, err
		}
		out.Render(console.Debug("journal: %s", j.Path()))
	}

	return &Session{
		Tool:       tool,
		Config:     cfg,
		ConfigPath: configPath,
		Console:    out,
		Ops:        ops,
		Journal:    j,
	}, nil
}

func (s *Session) Close() {
	if err := s.Journal.Close(); err != nil {
		logs.Warnf("failed to close journal: %v", err)
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM. The run loop checks it
// between files.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
