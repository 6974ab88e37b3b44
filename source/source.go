package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

const searchWindow = 64 * 1024

var ErrOutOfRange = errors.New("offset out of range")

// Source is a read-only random-access view over an input file.
// Implementations must be safe for concurrent reads.
type Source interface {
	Len() int64
	At(off int64) byte
	Slice(start, end int64) ([]byte, error)
	Close() error
}

// Bytes is an in-memory Source.
type Bytes []byte

func (b Bytes) Len() int64 { return int64(len(b)) }

func (b Bytes) At(off int64) byte { return b[off] }

func (b Bytes) Slice(start, end int64) ([]byte, error) {
	if err := checkBounds(start, end, b.Len()); err != nil {
		return nil, err
	}
	return b[start:end], nil
}

func (b Bytes) Close() error { return nil }

// ReaderAt adapts an io.ReaderAt of known size. Slices are copies.
type ReaderAt struct {
	r    io.ReaderAt
	size int64
	c    io.Closer
}

func NewReaderAt(r io.ReaderAt, size int64) *ReaderAt {
	ra := &ReaderAt{r: r, size: size}
	if c, ok := r.(io.Closer); ok {
		ra.c = c
	}
	return ra
}

// OpenReaderAt opens path through golang.org/x/exp/mmap.
func OpenReaderAt(path string) (*ReaderAt, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	return NewReaderAt(r, int64(r.Len())), nil
}

func (ra *ReaderAt) Len() int64 { return ra.size }

// At panics if off is out of range or the underlying read fails, the same
// way indexing Bytes does. Callers that need the error use Slice.
func (ra *ReaderAt) At(off int64) byte {
	b, err := ra.Slice(off, off+1)
	if err != nil {
		panic(err)
	}
	return b[0]
}

func (ra *ReaderAt) Slice(start, end int64) ([]byte, error) {
	if err := checkBounds(start, end, ra.size); err != nil {
		return nil, err
	}
	buf := make([]byte, end-start)
	n, err := ra.r.ReadAt(buf, start)
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, fmt.Errorf("unable to read [%d, %d): %w", start, end, err)
}

func (ra *ReaderAt) Close() error {
	if ra.c == nil {
		return nil
	}
	return ra.c.Close()
}

// IndexByte returns the offset of the first c at or after from, or -1.
func IndexByte(src Source, from int64, c byte) (int64, error) {
	size := src.Len()
	for from < size {
		end := min(from+searchWindow, size)
		buf, err := src.Slice(from, end)
		if err != nil {
			return -1, err
		}
		if i := bytes.IndexByte(buf, c); i >= 0 {
			return from + int64(i), nil
		}
		from = end
	}
	return -1, nil
}

func checkBounds(start, end, size int64) error {
	if start < 0 || end < start || end > size {
		return fmt.Errorf("slice [%d, %d) of %d bytes: %w", start, end, size, ErrOutOfRange)
	}
	return nil
}
