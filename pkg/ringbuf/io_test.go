package ringbuf

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type limitedWriter struct {
	buf   bytes.Buffer
	limit int
	err   error
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	n, _ := w.buf.Write(p)
	w.limit -= n
	return n, w.err
}

func TestRingBuffer_Write(t *testing.T) {
	rb := New(5)

	n, err := rb.Write([]byte("hello world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 11 {
		t.Errorf("written: got %d, want 11", n)
	}
	assertContents(t, rb, []byte("world"), "write keeps tail")
}

func TestRingBuffer_Read(t *testing.T) {
	rb := New(8)
	rb.Push([]byte("abcdef"))
	rb.Skip(4)
	rb.Push([]byte("ghijkl"))

	tests := []struct {
		name     string
		size     int
		expected string
		err      error
	}{
		{"empty destination", 0, "", nil},
		{"partial across wrap", 5, "efghi", nil},
		{"remainder", 10, "jkl", nil},
		{"drained", 4, "", io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := make([]byte, tt.size)
			n, err := rb.Read(p)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error: got %v, want %v", err, tt.err)
			}
			if got := string(p[:n]); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRingBuffer_ReadAll(t *testing.T) {
	rb := New(16)
	_, _ = io.Copy(rb, strings.NewReader(strings.Repeat("x", 40)+"0123456789abcdef"))

	got, err := io.ReadAll(rb)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "0123456789abcdef" {
		t.Errorf("got %q", got)
	}
}

func TestRingBuffer_WriteTo(t *testing.T) {
	rb := New(6)
	rb.Push([]byte("abcd"))
	rb.Skip(3)
	rb.Push([]byte("efghi"))

	var out bytes.Buffer
	n, err := rb.WriteTo(&out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 6 || out.String() != "defghi" {
		t.Errorf("got %d bytes %q, want 6 bytes \"defghi\"", n, out.String())
	}
	if rb.ReadAvailable() != 0 {
		t.Errorf("readable after WriteTo: got %d, want 0", rb.ReadAvailable())
	}
}

func TestRingBuffer_WriteToShort(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		writer    *limitedWriter
		wantErr   error
		wantOut   string
		remaining string
	}{
		{"short write", &limitedWriter{limit: 2}, io.ErrShortWrite, "ab", "cd"},
		{"writer error", &limitedWriter{limit: 3, err: errBoom}, errBoom, "abc", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := New(4)
			rb.Push([]byte("abcd"))

			n, err := rb.WriteTo(tt.writer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tt.wantErr)
			}
			if int(n) != len(tt.wantOut) || tt.writer.buf.String() != tt.wantOut {
				t.Errorf("written: got %d %q, want %q", n, tt.writer.buf.String(), tt.wantOut)
			}
			assertContents(t, rb, []byte(tt.remaining), "remaining after failed write")
		})
	}
}
