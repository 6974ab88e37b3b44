package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, content string) (in, out string) {
	dir := t.TempDir()
	in = filepath.Join(dir, "measurements.txt")
	out = filepath.Join(dir, "output.txt")
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))

	filePath, outputPath = in, out
	numWorkers, chunksPerWorker, minChunk = 4, 2, 0
	reader, reduce = "mmap", "tree"
	showStats, verify = false, true
	return in, out
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	_, out := setup(t, "Paris;10.0\nBadLine\nParis;20.0\nOslo;-5.5\n")

	for _, tt := range []struct{ reader, reduce string }{
		{"mmap", "tree"}, {"readerat", "fold"},
	} {
		reader, reduce = tt.reader, tt.reduce
		require.NoError(t, run(context.Background(), quiet()))
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "Oslo=-5.5/-5.5/-5.5\nParis=10.0/15.0/20.0\n", string(b))
	}
}

func TestRunEmptyInput(t *testing.T) {
	_, out := setup(t, "")
	require.NoError(t, run(context.Background(), quiet()))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestRunErrors(t *testing.T) {
	setup(t, "Paris;10.0\n")
	reader = "carrier-pigeon"
	assert.Error(t, run(context.Background(), quiet()))

	setup(t, "Paris;10.0\n")
	reduce = "shuffle"
	assert.Error(t, run(context.Background(), quiet()))

	setup(t, "Paris;10.0\n")
	filePath = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, run(context.Background(), quiet()))
}
