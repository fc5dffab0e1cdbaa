package fileops

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

const renderInterval = 100 * time.Millisecond

// progressWriter wraps an io.Writer, counts bytes, and renders a bar to stderr.
type progressWriter struct {
	dst      io.Writer
	total    uint64
	written  uint64 // accessed via atomic
	label    string
	showBar  bool
	lastDraw time.Time
	started  time.Time
}

func newProgressWriter(dst io.Writer, total uint64, label string, showBar bool) *progressWriter {
	return &progressWriter{
		dst:     dst,
		total:   total,
		label:   label,
		showBar: showBar,
		started: time.Now(),
	}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.dst.Write(p)
	if n > 0 {
		atomic.AddUint64(&pw.written, uint64(n))
		pw.maybeRender()
	}
	return n, err
}

func (pw *progressWriter) maybeRender() {
	if !pw.showBar {
		return
	}
	now := time.Now()
	if now.Sub(pw.lastDraw) < renderInterval {
		return
	}
	pw.lastDraw = now
	pw.render()
}

func (pw *progressWriter) render() {
	fmt.Fprint(os.Stderr, pw.line())
}

// line builds the bar text without the trailing carriage return reset.
func (pw *progressWriter) line() string {
	w := atomic.LoadUint64(&pw.written)
	elapsed := time.Since(pw.started)
	rate := float64(0)
	if elapsed.Seconds() > 0 {
		rate = float64(w) / elapsed.Seconds()
	}

	var pct float64
	if pw.total > 0 {
		pct = float64(w) / float64(pw.total) * 100
		if pct > 100 {
			pct = 100
		}
	}

	barWidth := 30
	filled := 0
	if pw.total > 0 {
		filled = int(float64(barWidth) * float64(w) / float64(pw.total))
		if filled > barWidth {
			filled = barWidth
		}
	}
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)

	label := pw.label
	if len(label) > 8 {
		label = label[:8]
	}

	return fmt.Sprintf("\r  %-8s  [%s]  %5.1f%%  %s / %s  %s/s",
		label,
		bar,
		pct,
		humanize.Bytes(w),
		humanize.Bytes(pw.total),
		humanize.Bytes(uint64(rate)),
	)
}

func (pw *progressWriter) Finish() {
	if pw.showBar {
		pw.render()
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 80))
	}
}

// progressReader wraps an io.Reader and shares the writer's rendering.
type progressReader struct {
	src io.Reader
	pw  *progressWriter
}

func newProgressReader(src io.Reader, total uint64, label string, showBar bool) *progressReader {
	pw := newProgressWriter(io.Discard, total, label, showBar)
	return &progressReader{src: src, pw: pw}
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.src.Read(p)
	if n > 0 {
		atomic.AddUint64(&pr.pw.written, uint64(n))
		pr.pw.maybeRender()
	}
	return n, err
}

func (pr *progressReader) Finish() {
	pr.pw.Finish()
}
