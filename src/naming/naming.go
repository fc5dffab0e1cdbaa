// Package naming defines how split parts are named relative to the file
// they were cut from, and finds the parts that exist for a base file.
//
// A split part is any path whose final extension is made of decimal digits
// only: "video.mp4.00" is a part of "video.mp4". The digits are zero padded
// to a fixed width so that sorting parts by path also sorts them by index.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ext returns the final extension of path including the leading dot, or ""
// when the last path component has none. A leading dot on the component
// (".bashrc") does not start an extension.
func ext(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsSplitPart reports whether the final extension of path is non-empty and
// consists entirely of decimal digits.
func IsSplitPart(path string) bool {
	e := ext(path)
	if e == "" {
		return false
	}
	return allDigits(e[1:])
}

// BaseFileOf strips a single trailing ".<digits>" from path. Paths that are
// not split parts are returned unchanged. "x.001.002" yields "x.001".
func BaseFileOf(path string) string {
	if !IsSplitPart(path) {
		return path
	}
	return path[:len(path)-len(ext(path))]
}

// SplitsOf lists the regular files matching "<path>.*", sorted by path.
// A split part never has splits of its own, and a failed lookup is treated
// as "no splits".
func SplitsOf(path string) []string {
	if IsSplitPart(path) {
		return nil
	}

	matches, err := filepath.Glob(escapeGlob(path) + ".*")
	if err != nil {
		return nil
	}

	splits := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		splits = append(splits, match)
	}
	sort.Strings(splits)
	return splits
}

// PartName returns the name of part index of base, zero padded to width.
func PartName(base string, index, width int) string {
	return fmt.Sprintf("%s.%0*d", base, width, index)
}

// escapeGlob makes every glob metacharacter in path match literally.
func escapeGlob(path string) string {
	var b strings.Builder
	b.Grow(len(path))
	for _, r := range path {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		case '\\':
			if runtime.GOOS == "windows" {
				b.WriteRune(r)
			} else {
				b.WriteString(`\\`)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
