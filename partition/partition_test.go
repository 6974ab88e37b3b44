package partition

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"brc/source"
)

func randomLines(r *rand.Rand, size int) []byte {
	var b bytes.Buffer
	for b.Len() < size {
		n := r.Intn(40)
		for range n {
			b.WriteByte(byte('a' + r.Intn(26)))
		}
		if r.Intn(10) > 0 {
			b.WriteByte('\n')
		}
	}
	return b.Bytes()[:size]
}

func checkTiling(t *testing.T, data []byte, ranges []Range) {
	t.Helper()
	if len(data) == 0 {
		assert.Empty(t, ranges)
		return
	}
	require.NotEmpty(t, ranges)
	assert.Equal(t, int64(0), ranges[0].Start)
	assert.Equal(t, int64(len(data)), ranges[len(ranges)-1].End)
	for i, r := range ranges {
		assert.Greater(t, r.Len(), int64(0), "range %d is empty", i)
		if i > 0 {
			assert.Equal(t, ranges[i-1].End, r.Start, "gap or overlap at %d", i)
			assert.Equal(t, byte('\n'), data[r.Start-1], "cut %d not after terminator", i)
		}
	}
}

func TestSplitTiles(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for range 200 {
		size := r.Intn(5000)
		data := randomLines(r, size)
		n := 1 + r.Intn(64)

		ranges, err := Split(source.Bytes(data), n)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(ranges), n)
		checkTiling(t, data, ranges)
	}
}

func TestSplitKeepsAlignedCut(t *testing.T) {
	data := []byte("aaa\nbbb\nccc\nddd\n")
	ranges, err := Split(source.Bytes(data), 4)
	require.NoError(t, err)
	assert.Equal(t, []Range{{0, 4}, {4, 8}, {8, 12}, {12, 16}}, ranges)
}

func TestSplitNoTrailingTerminator(t *testing.T) {
	data := []byte("Paris;10.0\nOslo;-5.5")
	ranges, err := Split(source.Bytes(data), 2)
	require.NoError(t, err)
	checkTiling(t, data, ranges)
	assert.Equal(t, Range{11, int64(len(data))}, ranges[len(ranges)-1])
}

func TestSplitSingleLongLine(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 1000)
	ranges, err := Split(source.Bytes(data), 8)
	require.NoError(t, err)
	assert.Equal(t, []Range{{0, 1000}}, ranges)
}

func TestSplitEmpty(t *testing.T) {
	ranges, err := Split(source.Bytes(nil), 8)
	assert.NoError(t, err)
	assert.Empty(t, ranges)
}

func TestCount(t *testing.T) {
	var tests = []struct {
		size     int64
		want     int
		minChunk int64
		expect   int
	}{
		{0, 8, DefaultMinChunk, 0},
		{10, 8, DefaultMinChunk, 1},
		{10, 8, 0, 8},
		{3, 8, 0, 3},
		{10 << 20, 16, DefaultMinChunk, 10},
		{100 << 20, 16, DefaultMinChunk, 16},
		{100, 0, 0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, Count(tt.size, tt.want, tt.minChunk), "%+v", tt)
	}
}
