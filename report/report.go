package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"

	"brc/agg"
)

type entry struct {
	key  []byte
	stat agg.Stat
}

// AppendLine appends "name=min/mean/max\n".
func AppendLine(dst, key []byte, s agg.Stat) []byte {
	dst = append(dst, key...)
	dst = append(dst, '=')
	dst = FormatTenths(dst, s.Min)
	dst = append(dst, '/')
	dst = FormatTenths(dst, MeanTenths(s.Sum, s.Count))
	dst = append(dst, '/')
	dst = FormatTenths(dst, s.Max)
	return append(dst, '\n')
}

// sorted returns the entries of t ordered by raw key bytes.
func sorted(t *agg.Table) []entry {
	entries := make([]entry, 0, t.Len())
	t.Each(func(k []byte, s agg.Stat) {
		entries = append(entries, entry{key: k, stat: s})
	})
	slices.SortFunc(entries, func(a, b entry) int {
		return bytes.Compare(a.key, b.key)
	})
	return entries
}

// Write renders t to w, one line per key in ascending byte order.
func Write(w io.Writer, t *agg.Table) error {
	bw := bufio.NewWriter(w)
	var line []byte
	for _, e := range sorted(t) {
		line = AppendLine(line[:0], e.key, e.stat)
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush report: %w", err)
	}
	return nil
}

// Bytes renders t into memory.
func Bytes(t *agg.Table) []byte {
	var b bytes.Buffer
	// bytes.Buffer.Write never returns an error.
	_ = Write(&b, t)
	return b.Bytes()
}

// WriteFile creates or truncates path and writes the report. An empty
// table leaves an empty file behind.
func WriteFile(path string, t *agg.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to close %s: %w", path, err)
	}
	return nil
}
