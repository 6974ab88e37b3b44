package scan

import "errors"

// maxIntDigits caps |value| below 1e6, so |tenths| < 1e7. A Stat.Sum of such
// values cannot overflow int64 before ~9.2e11 records, more than a file of
// "k;999999.9\n" lines could hold below 10 TB.
const maxIntDigits = 6

var ErrMalformed = errors.New("malformed record")

// ParseTenths parses -?[0-9]+(\.[0-9])? into an integer number of tenths.
// Anything else is rejected with ErrMalformed.
func ParseTenths(b []byte) (int64, error) {
	i := 0
	neg := false
	if len(b) > 0 && b[0] == '-' {
		neg = true
		i++
	}

	start := i
	var v int64
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		v = v*10 + int64(b[i]-'0')
		i++
	}
	digits := i - start
	if digits == 0 || digits > maxIntDigits {
		return 0, ErrMalformed
	}
	v *= 10

	if i < len(b) {
		if b[i] != '.' || i+2 != len(b) {
			return 0, ErrMalformed
		}
		c := b[i+1]
		if c < '0' || c > '9' {
			return 0, ErrMalformed
		}
		v += int64(c - '0')
	}

	if neg {
		v = -v
	}
	return v, nil
}
