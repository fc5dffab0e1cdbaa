package main

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/splitfile/src/report"
)

// inTempDir runs the binary from an empty directory so no config file or
// journal from the developer's checkout is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SPLITFILE_CONFIG", "")
	t.Setenv("SMPLOG_CONFIG", "")
	return dir
}

func TestRunNoPathsExitsOne(t *testing.T) {
	inTempDir(t)
	var stdout, stderr bytes.Buffer
	if code := run(nil, strings.NewReader(""), &stdout, &stderr); code != report.ExitNoPaths {
		t.Fatalf("exit code = %d, want %d", code, report.ExitNoPaths)
	}
	if !strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("expected usage on stderr, got %q", stderr.String())
	}
}

func TestRunHelpExitsZero(t *testing.T) {
	inTempDir(t)
	for _, args := range [][]string{{"-h"}, {"--help"}, {"file.bin", "help"}} {
		var stdout, stderr bytes.Buffer
		if code := run(args, strings.NewReader(""), &stdout, &stderr); code != report.ExitOK {
			t.Fatalf("%v: exit code = %d, want 0", args, code)
		}
		if !strings.Contains(stdout.String(), "--bytes") {
			t.Fatalf("%v: usage is missing --bytes: %q", args, stdout.String())
		}
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	inTempDir(t)
	tests := [][]string{
		{"--bogus", "a.bin"},
		{"-b", "0MB", "a.bin"},
		{"--bytes=ten", "a.bin"},
		{"--backend=tape", "a.bin"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, strings.NewReader(""), &stdout, &stderr); code != report.ExitNoPaths {
			t.Fatalf("%v: exit code = %d, want %d", args, code, report.ExitNoPaths)
		}
	}
}

func TestRunSplitsWithAutoConfirm(t *testing.T) {
	dir := inTempDir(t)
	data := make([]byte, 2500)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-y", "--bytes=1KB", path}, strings.NewReader(""), &stdout, &stderr)
	if code != report.ExitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}
	for _, part := range []string{"video.mp4.0", "video.mp4.1", "video.mp4.2"} {
		if _, err := os.Stat(filepath.Join(dir, part)); err != nil {
			t.Fatalf("missing part %s: %v", part, err)
		}
	}
}

func TestRunQuitExitsTwo(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(path, make([]byte, 2500), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-b", "1KB", path}, strings.NewReader("q\n"), &stdout, &stderr)
	if code != report.ExitQuit {
		t.Fatalf("exit code = %d, want %d", code, report.ExitQuit)
	}
	if _, err := os.Stat(path + ".0"); !os.IsNotExist(err) {
		t.Fatalf("expected no parts after quit, stat err = %v", err)
	}
}

func TestRunDryRunLeavesDirectoryUnchanged(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(path, make([]byte, 2500), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--dry-run", "-y", "-b", "1KB", dir}, strings.NewReader(""), &stdout, &stderr); code != report.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("dry run changed the directory: %d entries", len(entries))
	}
}
