//go:build !unix

package source

// Open falls back to the copying reader where unix mmap is unavailable.
func Open(path string) (Source, error) {
	return OpenReaderAt(path)
}
