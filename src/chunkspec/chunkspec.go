// Package chunkspec parses and evaluates chunk size specifications such as
// "49MB". The same value is both the threshold above which a file gets
// split and the size of every chunk but the last.
//
// Units are decimal: KB is 1000 bytes, MB 1000^2, GB 1000^3.
package chunkspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Unit is the size unit of a Spec.
type Unit string

const (
	Bytes     Unit = "B"
	Kilobytes Unit = "KB"
	Megabytes Unit = "MB"
	Gigabytes Unit = "GB"
)

// Default is the chunk spec used when none is given.
const Default = "49MB"

var ErrInvalid = errors.New("invalid chunk size")

// Divisor returns the number of bytes in one u.
func (u Unit) Divisor() int64 {
	switch u {
	case Kilobytes:
		return 1_000
	case Megabytes:
		return 1_000_000
	case Gigabytes:
		return 1_000_000_000
	default:
		return 1
	}
}

// Spec is a size threshold in a unit.
type Spec struct {
	Magnitude int64
	Unit      Unit
}

// Parse reads "<integer>[B|KB|MB|GB]", case-insensitively. A bare integer
// is a byte count.
func Parse(text string) (Spec, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	unit := Bytes

	switch {
	case strings.HasSuffix(s, "KB"):
		unit = Kilobytes
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		unit = Megabytes
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		unit = Gigabytes
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return Spec{}, fmt.Errorf("%w %q: %v", ErrInvalid, text, err)
	}
	if n < 1 {
		return Spec{}, fmt.Errorf("%w %q: must be >= 1", ErrInvalid, text)
	}
	if n > (1<<63-1)/unit.Divisor() {
		return Spec{}, fmt.Errorf("%w %q: too large", ErrInvalid, text)
	}
	return Spec{Magnitude: n, Unit: unit}, nil
}

// MustParse is Parse for constants; it panics on error.
func MustParse(text string) Spec {
	spec, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return spec
}

// String returns the canonical form, e.g. "49MB" or "65536" for bytes.
func (s Spec) String() string {
	if s.Unit == Bytes || s.Unit == "" {
		return strconv.FormatInt(s.Magnitude, 10)
	}
	return strconv.FormatInt(s.Magnitude, 10) + string(s.Unit)
}

// Bytes returns the chunk size in bytes.
func (s Spec) Bytes() int64 {
	return s.Magnitude * s.Unit.Divisor()
}

// Normalize converts size to the spec's unit, for display.
func (s Spec) Normalize(size int64) float64 {
	return float64(size) / float64(s.Unit.Divisor())
}

// Exceeds reports whether size, expressed in the spec's unit, is strictly
// greater than the magnitude. Files that do not exceed the spec are never
// split.
func (s Spec) Exceeds(size int64) bool {
	return size > s.Bytes()
}

// SuffixWidth returns the number of decimal digits in
// floor(size / divisor / magnitude), at least 1. The largest part index is
// ceil(size/chunk)-1, which never exceeds that floor, so the width always
// fits every part.
func (s Spec) SuffixWidth(size int64) int {
	if size <= 0 {
		return 1
	}
	return digitCount(size / s.Bytes())
}

// PartCount returns how many chunks a file of size splits into.
func (s Spec) PartCount(size int64) int64 {
	if size <= 0 {
		return 0
	}
	chunk := s.Bytes()
	return (size + chunk - 1) / chunk
}

func digitCount(n int64) int {
	width := 1
	for n >= 10 {
		n /= 10
		width++
	}
	return width
}
