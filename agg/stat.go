package agg

import "math"

// Stat holds running statistics for one key. All values are in tenths.
type Stat struct {
	Min   int64
	Max   int64
	Sum   int64
	Count int64
}

func NewStat(v int64) Stat {
	return Stat{Min: v, Max: v, Sum: v, Count: 1}
}

// Identity is the neutral element of Combine. It is never stored in a Table.
func Identity() Stat {
	return Stat{Min: math.MaxInt64, Max: math.MinInt64}
}

func (s *Stat) Add(v int64) {
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
	s.Sum += v
	s.Count++
}

// Combine is associative and commutative.
func Combine(a, b Stat) Stat {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	return Stat{
		Min:   min(a.Min, b.Min),
		Max:   max(a.Max, b.Max),
		Sum:   a.Sum + b.Sum,
		Count: a.Count + b.Count,
	}
}
