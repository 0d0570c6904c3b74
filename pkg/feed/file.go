package feed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

var ErrNotOpen = errors.New("file feed is not open")

// File feeds the contents of a memory-mapped file.
type File struct {
	path   string
	reader *mmap.ReaderAt

	ChunkSize int
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Open() error {
	var err error
	f.reader, err = mmap.Open(f.path)
	if err != nil {
		return fmt.Errorf("unable to open file feed %q: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() {
	if f.reader != nil {
		_ = f.reader.Close()
		f.reader = nil
	}
}

func (f *File) Size() int64 {
	if f.reader == nil {
		return 0
	}
	return int64(f.reader.Len())
}

func (f *File) Drain(ctx context.Context, w io.Writer) (int64, error) {
	return f.drainFrom(ctx, w, 0)
}

// DrainTail writes only the last n bytes of the file.
func (f *File) DrainTail(ctx context.Context, w io.Writer, n int64) (int64, error) {
	return f.drainFrom(ctx, w, max(0, f.Size()-n))
}

func (f *File) drainFrom(ctx context.Context, w io.Writer, offset int64) (int64, error) {
	if f.reader == nil {
		return 0, ErrNotOpen
	}

	buffer := make([]byte, chunkSize(f.ChunkSize))
	size := f.Size()
	var total int64

	for offset < size {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := f.reader.ReadAt(buffer[:min(int64(len(buffer)), size-offset)], offset)
		if err != nil && err != io.EOF {
			return total, fmt.Errorf("unable to read %q at offset %d: %w", f.path, offset, err)
		}
		offset += int64(n)

		written, err := write(w, buffer[:n])
		total += int64(written)
		if err != nil {
			return total, fmt.Errorf("unable to write file feed %q: %w", f.path, err)
		}
	}

	return total, nil
}
