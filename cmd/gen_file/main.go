// gen_file writes random test data for split/join round trips.
//
// Usage:
//
//	go run ./cmd/gen_file <size> [filename]
//
// Size uses the same decimal units as split -b: B, KB, MB, GB (e.g. "49MB",
// "1GB", "65536"). If no filename is given, one is generated from the size.
// If the file already exists and matches the requested size, it is reused.
package main

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/danmuck/splitfile/cmd/internal/logcfg"
	"github.com/danmuck/splitfile/src/chunkspec"
	logs "github.com/danmuck/smplog"
	"github.com/dustin/go-humanize"
)

const DefaultOutputDir = "local/testdata"

func defaultName(spec chunkspec.Spec) string {
	return filepath.Join(DefaultOutputDir, fmt.Sprintf("test_%s.dat", spec))
}

func main() {
	cfg, _ := logcfg.Load()
	logs.Configure(cfg)

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: gen_file <size> [filename]\n")
		fmt.Fprintf(os.Stderr, "  size: number with optional suffix (B, KB, MB, GB; decimal)\n")
		fmt.Fprintf(os.Stderr, "  Examples: 1MB, 49MB, 65536\n")
		fmt.Fprintf(os.Stderr, "  Default output dir when filename omitted: %s/\n", DefaultOutputDir)
		os.Exit(1)
	}

	spec, err := chunkspec.Parse(os.Args[1])
	if err != nil {
		logs.Fatalf(err, "invalid size")
	}

	filename := defaultName(spec)
	if len(os.Args) >= 3 {
		filename = os.Args[2]
	}

	if err := generate(filename, spec.Bytes(), rand.Reader); err != nil {
		logs.Fatalf(err, "failed to generate %s", filename)
	}
}

// generate fills filename with size bytes from src, reusing a file that
// already has the right size.
func generate(filename string, size int64, src io.Reader) error {
	if dir := filepath.Dir(filename); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if info, err := os.Stat(filename); err == nil {
		if info.Size() == size {
			logs.Infof("Reusing existing file: %s (%s)", filename, humanize.Bytes(uint64(size)))
			return nil
		}
		logs.Warnf("File exists but size mismatch (%d != %d), regenerating", info.Size(), size)
	}

	logs.Infof("Generating %s (%s)...", filename, humanize.Bytes(uint64(size)))

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	// 4MB at a time
	buf := make([]byte, 4*1024*1024)
	if _, err := io.CopyBuffer(f, io.LimitReader(src, size), buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logs.Infof("Generated: %s (%d bytes)", filename, size)
	return nil
}
