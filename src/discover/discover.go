// Package discover turns command-line path arguments into the regular files
// they name: glob patterns, plain files and directories.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danmuck/splitfile/src/naming"
)

// ErrUnresolvable is returned for an argument that is not an existing file,
// not a directory, and has no wildcard to glob.
var ErrUnresolvable = errors.New("not a file, nor a dir, and no wildcard to glob")

// IsPattern reports whether arg contains a wildcard character.
func IsPattern(arg string) bool {
	return strings.ContainsAny(arg, "*?")
}

// Expand resolves one argument to a sorted list of regular files.
//
// Patterns are globbed and filtered to regular files, a regular file is
// returned as is, and a directory yields its immediate regular-file
// children (hidden entries are skipped, as a shell "dir/*" would).
func Expand(arg string) ([]string, error) {
	if IsPattern(arg) {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", arg, err)
		}
		return regularFiles(matches), nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", arg, ErrUnresolvable)
	}

	switch {
	case info.Mode().IsRegular():
		return []string{arg}, nil
	case info.IsDir():
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %q: %w", arg, err)
		}
		children := make([]string, 0, len(entries))
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			children = append(children, filepath.Join(arg, entry.Name()))
		}
		return regularFiles(children), nil
	default:
		return nil, fmt.Errorf("%q: %w", arg, ErrUnresolvable)
	}
}

func regularFiles(paths []string) []string {
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files
}

// BaseSet accumulates the distinct base files behind a run's inputs. Split
// parts are mapped to their base file before insertion.
type BaseSet struct {
	bases map[string]struct{}
}

func NewBaseSet() *BaseSet {
	return &BaseSet{bases: make(map[string]struct{})}
}

// Add records the base file of path.
func (s *BaseSet) Add(path string) {
	s.bases[naming.BaseFileOf(path)] = struct{}{}
}

func (s *BaseSet) Len() int {
	return len(s.bases)
}

// Sorted returns the unique base files in ascending path order.
func (s *BaseSet) Sorted() []string {
	out := make([]string, 0, len(s.bases))
	for base := range s.bases {
		out = append(out, base)
	}
	sort.Strings(out)
	return out
}
