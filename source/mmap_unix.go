//go:build unix

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapped is a Source backed by a read-only shared mapping. Slices alias
// the mapping and are invalid after Close.
type Mapped struct {
	data []byte
}

// Open maps path into memory.
func Open(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat %s: %w", path, err)
	}
	if fi.Size() == 0 {
		return &Mapped{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("unable to mmap %s: %w", path, err)
	}
	// Advisory only.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &Mapped{data: data}, nil
}

func (m *Mapped) Len() int64 { return int64(len(m.data)) }

func (m *Mapped) At(off int64) byte { return m.data[off] }

func (m *Mapped) Slice(start, end int64) ([]byte, error) {
	if err := checkBounds(start, end, m.Len()); err != nil {
		return nil, err
	}
	return m.data[start:end], nil
}

func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if err != nil {
		return fmt.Errorf("unable to unmap: %w", err)
	}
	return nil
}
