// Package fileops holds the three file operations split and join rely on:
// cutting a file into fixed-size numbered chunks, concatenating chunks back
// together, and comparing two files byte for byte.
//
// Native does all three in Go. System shells out to split(1), cat(1) and
// diff(1) for users who want the exact behavior of their platform tools.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// FileOps is the narrow interface the splitter and joiner work against.
type FileOps interface {
	// Chunk writes src into "<src>.<N>" files of chunkSize bytes each
	// (the last may be shorter), N zero padded to suffixWidth and starting
	// at 0. It returns the parts written.
	Chunk(ctx context.Context, src string, chunkSize int64, suffixWidth int) ([]string, error)
	// Concat writes parts, in order, into dst and returns the bytes written.
	Concat(ctx context.Context, parts []string, dst string) (int64, error)
	// Compare reports whether a and b hold identical bytes.
	Compare(ctx context.Context, a, b string) (bool, error)
}

const (
	BackendNative = "native"
	BackendSystem = "system"
)

var (
	ErrSuffixExhausted = errors.New("output file suffixes exhausted")
	ErrUnknownBackend  = errors.New("unknown file operations backend")
	ErrInputIsOutput   = errors.New("input file is output file")
)

// CommandError is a system utility that exited unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Options tune a backend.
type Options struct {
	// Progress draws a progress bar on stderr during long copies.
	Progress bool
}

// New returns the backend registered under name.
func New(name string, opts Options) (FileOps, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendNative:
		return &Native{ShowProgress: opts.Progress}, nil
	case BackendSystem:
		return &System{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use %q or %q)", ErrUnknownBackend, name, BackendNative, BackendSystem)
	}
}

// checkOutput fails when dst already exists and is one of parts. Writing
// dst would otherwise truncate an input, or read back its own output
// forever.
func checkOutput(parts []string, dst string) error {
	out, err := os.Stat(dst)
	if err != nil {
		return nil
	}
	for _, part := range parts {
		in, err := os.Stat(part)
		if err != nil {
			return err
		}
		if os.SameFile(in, out) {
			return fmt.Errorf("%s: %w", part, ErrInputIsOutput)
		}
	}
	return nil
}
