package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) ReadAt(p []byte, off int64) (int, error) {
	return 0, errors.New("disk on fire")
}

func writeTemp(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "measurements.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBytesSlice(t *testing.T) {
	src := Bytes("Paris;10.0\nOslo;-5.5\n")

	b, err := src.Slice(0, 5)
	assert.NoError(t, err)
	assert.Equal(t, "Paris", string(b))
	assert.Equal(t, byte(';'), src.At(5))

	_, err = src.Slice(3, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = src.Slice(0, src.Len()+1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestReaderAt(t *testing.T) {
	data := []byte("Paris;10.0\nOslo;-5.5\n")
	src := NewReaderAt(bytes.NewReader(data), int64(len(data)))

	b, err := src.Slice(11, 15)
	assert.NoError(t, err)
	assert.Equal(t, "Oslo", string(b))
	assert.Equal(t, byte('\n'), src.At(10))
	assert.NoError(t, src.Close())

	bad := NewReaderAt(failingReader{}, 10)
	_, err = bad.Slice(0, 5)
	assert.ErrorContains(t, err, "disk on fire")
}

func TestReaderAtAtPanics(t *testing.T) {
	bad := NewReaderAt(failingReader{}, 10)
	assert.PanicsWithError(t, "unable to read [3, 4): disk on fire", func() { bad.At(3) })

	src := NewReaderAt(bytes.NewReader([]byte("Oslo\n")), 5)
	assert.Panics(t, func() { src.At(5) })
	assert.Panics(t, func() { src.At(-1) })
}

func TestReaderAtShortRead(t *testing.T) {
	data := []byte("short")
	src := NewReaderAt(bytes.NewReader(data), 10)
	_, err := src.Slice(0, 10)
	assert.Error(t, err)
}

func TestIndexByte(t *testing.T) {
	data := bytes.Repeat([]byte{'a'}, searchWindow*2+10)
	data[searchWindow+3] = '\n'
	src := Bytes(data)

	idx, err := IndexByte(src, 0, '\n')
	assert.NoError(t, err)
	assert.Equal(t, int64(searchWindow+3), idx)

	idx, err = IndexByte(src, searchWindow+4, '\n')
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), idx)

	_, err = IndexByte(NewReaderAt(failingReader{}, 10), 0, '\n')
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	content := "Paris;10.0\nOslo;-5.5\n"
	path := writeTemp(t, content)

	for name, open := range map[string]func(string) (Source, error){
		"mmap":     Open,
		"readerat": func(p string) (Source, error) { return OpenReaderAt(p) },
	} {
		t.Run(name, func(t *testing.T) {
			src, err := open(path)
			require.NoError(t, err)
			defer src.Close()

			assert.Equal(t, int64(len(content)), src.Len())
			b, err := src.Slice(0, src.Len())
			assert.NoError(t, err)
			assert.Equal(t, content, string(b))
		})
	}
}

func TestOpenEmpty(t *testing.T) {
	path := writeTemp(t, "")

	src, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), src.Len())
	assert.NoError(t, src.Close())

	ra, err := OpenReaderAt(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ra.Len())
	assert.NoError(t, ra.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
