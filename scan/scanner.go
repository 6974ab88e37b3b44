package scan

import "bytes"

const (
	delim = ';'
	eol   = '\n'
)

// Scanner walks the lines of one aligned range and yields parsed records.
// Keys returned by Next alias the underlying buffer.
type Scanner struct {
	buf       []byte
	pos       int
	lines     int64
	malformed int64
}

func New(buf []byte) *Scanner {
	return &Scanner{buf: buf}
}

// Next returns the next well-formed record. Malformed lines are counted
// and skipped; empty lines are skipped silently.
func (s *Scanner) Next() (key []byte, tenths int64, ok bool) {
	for s.pos < len(s.buf) {
		line := s.buf[s.pos:]
		if end := bytes.IndexByte(line, eol); end >= 0 {
			line = line[:end]
			s.pos += end + 1
		} else {
			s.pos = len(s.buf)
		}
		if len(line) == 0 {
			continue
		}
		s.lines++

		sep := bytes.IndexByte(line, delim)
		if sep < 0 {
			s.malformed++
			continue
		}
		v, err := ParseTenths(line[sep+1:])
		if err != nil {
			s.malformed++
			continue
		}
		return line[:sep], v, true
	}
	return nil, 0, false
}

// Lines is the number of non-empty lines consumed so far.
func (s *Scanner) Lines() int64 { return s.lines }

func (s *Scanner) Malformed() int64 { return s.malformed }
