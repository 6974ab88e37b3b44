package report

import "strconv"

// MeanTenths returns sum/count rounded half up to the nearest tenth.
// Halves round toward +Inf: 2.45 -> 2.5, -2.45 -> -2.4.
// count must be positive. No intermediate exceeds the range of sum.
func MeanTenths(sum, count int64) int64 {
	q, r := sum/count, sum%count
	if r < 0 {
		q--
		r += count
	}
	if r >= count-r {
		q++
	}
	return q
}

// FormatTenths appends v/10 with exactly one fractional digit.
func FormatTenths(dst []byte, v int64) []byte {
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/10, 10)
	dst = append(dst, '.')
	return append(dst, byte('0'+v%10))
}
