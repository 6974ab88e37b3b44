package partition

import (
	"fmt"

	"brc/source"
)

const DefaultMinChunk = 1 << 20 // 1 MiB

// Range is a half-open byte interval [Start, End) of the input.
type Range struct {
	Start int64
	End   int64
}

func (r Range) Len() int64 { return r.End - r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Start, r.End) }

// Count shrinks want so that no range is smaller than minChunk bytes.
// It returns 0 only for empty input.
func Count(size int64, want int, minChunk int64) int {
	if size <= 0 {
		return 0
	}
	n := int64(max(want, 1))
	if minChunk > 0 {
		n = min(n, max(size/minChunk, 1))
	}
	return int(min(n, size))
}

// Split divides src into at most n line-aligned ranges that tile
// [0, src.Len()) exactly. Every interior cut lies right after a '\n'.
func Split(src source.Source, n int) ([]Range, error) {
	size := src.Len()
	if size == 0 || n <= 0 {
		return nil, nil
	}
	n = int(min(int64(n), size))
	step := size / int64(n)

	cuts := make([]int64, 1, n+1)
	for i := 1; i < n; i++ {
		naive := int64(i) * step
		prev := cuts[len(cuts)-1]
		if naive <= prev {
			continue
		}

		// Start one byte early so a naive offset already sitting on a
		// line start is kept as is.
		nl, err := source.IndexByte(src, naive-1, '\n')
		if err != nil {
			return nil, fmt.Errorf("unable to align boundary %d: %w", i, err)
		}
		if nl < 0 || nl+1 >= size {
			break
		}
		cuts = append(cuts, nl+1)
	}
	cuts = append(cuts, size)

	ranges := make([]Range, 0, len(cuts)-1)
	for i := 1; i < len(cuts); i++ {
		if cuts[i] > cuts[i-1] {
			ranges = append(ranges, Range{Start: cuts[i-1], End: cuts[i]})
		}
	}
	return ranges, nil
}
