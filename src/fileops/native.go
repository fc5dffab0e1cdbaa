package fileops

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/splitfile/src/naming"
)

const copyBufferSize = 4 * 1024 * 1024 // 4MB

// Native implements FileOps with plain file I/O.
type Native struct {
	ShowProgress bool
}

func (n *Native) Chunk(ctx context.Context, src string, chunkSize int64, suffixWidth int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", chunkSize)
	}
	if suffixWidth < 1 {
		return nil, fmt.Errorf("invalid suffix width %d", suffixWidth)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, err
	}

	limit := 1
	for i := 0; i < suffixWidth; i++ {
		limit *= 10
	}

	var reader io.Reader = bufio.NewReaderSize(in, copyBufferSize)
	var pr *progressReader
	if n.ShowProgress {
		pr = newProgressReader(reader, uint64(info.Size()), "split", true)
		reader = pr
		defer pr.Finish()
	}

	var parts []string
	cleanup := true
	defer func() {
		if cleanup {
			for _, part := range parts {
				_ = os.Remove(part)
			}
		}
	}()

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		written, err := writePart(reader, naming.PartName(src, index, suffixWidth), chunkSize, index, limit, &parts)
		if err != nil {
			return nil, err
		}
		if written < chunkSize {
			break
		}
	}

	cleanup = false
	return parts, nil
}

// writePart copies up to size bytes from r into path. The file is only
// created once there is at least one byte to put in it.
func writePart(r io.Reader, path string, size int64, index, limit int, parts *[]string) (int64, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, err
	}
	if index >= limit {
		return 0, fmt.Errorf("part %d of %s: %w", index, path, ErrSuffixExhausted)
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create part: %w", err)
	}
	*parts = append(*parts, path)

	written, err := io.Copy(out, io.MultiReader(bytes.NewReader(first[:]), io.LimitReader(r, size-1)))
	if err != nil {
		_ = out.Close()
		return written, fmt.Errorf("failed to write part %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return written, fmt.Errorf("failed to close part %s: %w", path, err)
	}
	return written, nil
}

func (n *Native) Concat(ctx context.Context, parts []string, dst string) (int64, error) {
	var total uint64
	for _, part := range parts {
		info, err := os.Stat(part)
		if err != nil {
			return 0, err
		}
		total += uint64(info.Size())
	}
	if err := checkOutput(parts, dst); err != nil {
		return 0, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	var w io.Writer = out
	var pw *progressWriter
	if n.ShowProgress {
		pw = newProgressWriter(out, total, "join", true)
		w = pw
	}

	var written int64
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			_ = out.Close()
			return written, err
		}
		copied, err := copyFileInto(w, part)
		written += copied
		if err != nil {
			_ = out.Close()
			return written, err
		}
	}
	if pw != nil {
		pw.Finish()
	}

	if err := out.Close(); err != nil {
		return written, err
	}
	return written, nil
}

func copyFileInto(w io.Writer, path string) (int64, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	n, err := io.Copy(w, in)
	if err != nil {
		return n, fmt.Errorf("failed to copy %s: %w", path, err)
	}
	return n, nil
}

func (n *Native) Compare(ctx context.Context, a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()

	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	ia, err := fa.Stat()
	if err != nil {
		return false, err
	}
	ib, err := fb.Stat()
	if err != nil {
		return false, err
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !doneA {
			return false, errA
		}
		if errB != nil && !doneB {
			return false, errB
		}
		if doneA || doneB {
			return doneA && doneB, nil
		}
	}
}
