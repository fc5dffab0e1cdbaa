package chunkspec

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"49MB", Spec{49, Megabytes}},
		{"49mb", Spec{49, Megabytes}},
		{"10KB", Spec{10, Kilobytes}},
		{"1GB", Spec{1, Gigabytes}},
		{"65536", Spec{65536, Bytes}},
		{"512B", Spec{512, Bytes}},
		{" 7 MB ", Spec{7, Megabytes}},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "MB", "0MB", "-5KB", "1.5GB", "12TB", "abc", "99999999999GB"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalid", in, err)
			}
		})
	}
}

func TestBytesAndString(t *testing.T) {
	spec := MustParse("49MB")
	if got := spec.Bytes(); got != 49_000_000 {
		t.Fatalf("Bytes() = %d, want 49000000", got)
	}
	if got := spec.String(); got != "49MB" {
		t.Fatalf("String() = %q, want 49MB", got)
	}
	if got := MustParse("4096B").String(); got != "4096" {
		t.Fatalf("String() = %q, want 4096", got)
	}
}

func TestExceeds(t *testing.T) {
	spec := MustParse("49MB")
	tests := []struct {
		name string
		size int64
		want bool
	}{
		{"empty", 0, false},
		{"below", 48_999_999, false},
		{"exactly at threshold", 49_000_000, false},
		{"one byte over", 49_000_001, true},
		{"100MB", 100_000_000, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := spec.Exceeds(tc.size); got != tc.want {
				t.Fatalf("Exceeds(%d) = %v, want %v", tc.size, got, tc.want)
			}
		})
	}
}

func TestSuffixWidth(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		size  int64
		width int
		parts int64
	}{
		{"100MB at 49MB", "49MB", 100_000_000, 1, 3},
		{"exactly ten chunks", "10", 100, 2, 10},
		{"ten chunks plus a byte", "10", 101, 2, 11},
		{"hundred chunks", "1KB", 100_000, 3, 100},
		{"below one chunk", "1KB", 999, 1, 1},
		{"bytes unit", "3", 10, 1, 4},
		{"gigabytes", "1GB", 25_500_000_000, 2, 26},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := MustParse(tc.spec)
			if got := spec.SuffixWidth(tc.size); got != tc.width {
				t.Fatalf("SuffixWidth(%d) = %d, want %d", tc.size, got, tc.width)
			}
			if got := spec.PartCount(tc.size); got != tc.parts {
				t.Fatalf("PartCount(%d) = %d, want %d", tc.size, got, tc.parts)
			}
		})
	}
}

// The largest part index must always fit in the computed width.
func TestSuffixWidthFitsLastIndex(t *testing.T) {
	spec := MustParse("7")
	for size := int64(8); size < 2000; size++ {
		width := spec.SuffixWidth(size)
		last := spec.PartCount(size) - 1
		if digitCount(last) > width {
			t.Fatalf("size %d: last index %d needs %d digits, width is %d", size, last, digitCount(last), width)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := MustParse("49MB").Normalize(100_000_000); got != 100.0 {
		t.Fatalf("Normalize = %v, want 100", got)
	}
}
