package fileops

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/danmuck/splitfile/src/naming"
)

// System implements FileOps with the platform's split, cat and diff.
type System struct {
	// Lookup overrides exec.LookPath; used by tests.
	Lookup func(file string) (string, error)
}

func (s *System) command(ctx context.Context, name string, args ...string) (*exec.Cmd, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = exec.LookPath
	}
	path, err := lookup(name)
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Args[0] = name
	return cmd, nil
}

// run executes cmd and converts a non-zero exit into a CommandError.
func run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	if cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{
			Args:     cmd.Args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}
	return err
}

// ChunkArgs returns the split(1) arguments for src.
func ChunkArgs(src string, chunkSize int64, suffixWidth int) []string {
	return []string{
		"-d",
		"-b", strconv.FormatInt(chunkSize, 10),
		"-a", strconv.Itoa(suffixWidth),
		src,
		src + ".",
	}
}

func (s *System) Chunk(ctx context.Context, src string, chunkSize int64, suffixWidth int) ([]string, error) {
	cmd, err := s.command(ctx, "split", ChunkArgs(src, chunkSize, suffixWidth)...)
	if err != nil {
		return nil, err
	}
	if err := run(cmd); err != nil {
		return nil, err
	}
	return naming.SplitsOf(src), nil
}

func (s *System) Concat(ctx context.Context, parts []string, dst string) (int64, error) {
	cmd, err := s.command(ctx, "cat", parts...)
	if err != nil {
		return 0, err
	}
	if err := checkOutput(parts, dst); err != nil {
		return 0, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	cmd.Stdout = out
	runErr := run(cmd)
	closeErr := out.Close()
	if runErr != nil {
		return 0, runErr
	}
	if closeErr != nil {
		return 0, closeErr
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Compare runs "diff -a a b". Exit status 0 means identical, 1 means the
// files differ; anything else is an error.
func (s *System) Compare(ctx context.Context, a, b string) (bool, error) {
	cmd, err := s.command(ctx, "diff", "-a", a, b)
	if err != nil {
		return false, err
	}
	err = run(cmd)
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}
