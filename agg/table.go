package agg

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

const (
	DefaultSize = 1024

	// Grow once len > cap * loadNum / loadDen.
	loadNum = 3
	loadDen = 4
)

type slot struct {
	hash uint64
	off  int64
	n    int64
	used bool
	stat Stat
}

// Table maps raw key bytes to a Stat using open addressing with linear
// probing. Keys are copied into a single arena on first insert, so updates
// to existing keys never allocate. A Table is not safe for concurrent use.
type Table struct {
	arena []byte
	slots []slot
	mask  uint64
	count int
}

func NewTable(sizeHint int) *Table {
	n := 16
	for n*loadNum/loadDen < sizeHint {
		n <<= 1
	}
	return &Table{
		slots: make([]slot, n),
		mask:  uint64(n - 1),
	}
}

// Update records value v for key.
func (t *Table) Update(key []byte, v int64) {
	h := xxhash.Sum64(key)
	i := t.find(h, key)
	if s := &t.slots[i]; s.used {
		s.stat.Add(v)
		return
	}
	t.insert(i, h, key, NewStat(v))
}

// Combine folds s into the entry for key.
func (t *Table) Combine(key []byte, s Stat) {
	if s.Count == 0 {
		return
	}
	h := xxhash.Sum64(key)
	i := t.find(h, key)
	if cur := &t.slots[i]; cur.used {
		cur.stat = Combine(cur.stat, s)
		return
	}
	t.insert(i, h, key, s)
}

// Merge folds every entry of o into t. o is left untouched and must not be t.
func (t *Table) Merge(o *Table) {
	for i := range o.slots {
		s := &o.slots[i]
		if !s.used {
			continue
		}
		key := o.key(s)
		j := t.find(s.hash, key)
		if cur := &t.slots[j]; cur.used {
			cur.stat = Combine(cur.stat, s.stat)
			continue
		}
		t.insert(j, s.hash, key, s.stat)
	}
}

func (t *Table) Get(key []byte) (Stat, bool) {
	s := &t.slots[t.find(xxhash.Sum64(key), key)]
	return s.stat, s.used
}

// Len is the number of distinct keys.
func (t *Table) Len() int { return t.count }

// Records is the total number of values recorded across all keys.
func (t *Table) Records() int64 {
	var n int64
	t.Each(func(_ []byte, s Stat) { n += s.Count })
	return n
}

// Each calls f for every entry in unspecified order. The key slice is only
// valid until the table is next modified.
func (t *Table) Each(f func(key []byte, s Stat)) {
	for i := range t.slots {
		if s := &t.slots[i]; s.used {
			f(t.key(s), s.stat)
		}
	}
}

func (t *Table) key(s *slot) []byte {
	return t.arena[s.off : s.off+s.n]
}

// find returns the slot holding key, or the empty slot where it belongs.
func (t *Table) find(h uint64, key []byte) uint64 {
	i := h & t.mask
	for {
		s := &t.slots[i]
		if !s.used || (s.hash == h && bytes.Equal(t.key(s), key)) {
			return i
		}
		i = (i + 1) & t.mask
	}
}

func (t *Table) insert(i, h uint64, key []byte, st Stat) {
	off := len(t.arena)
	t.arena = append(t.arena, key...)
	t.slots[i] = slot{hash: h, off: int64(off), n: int64(len(key)), used: true, stat: st}
	t.count++
	if t.count*loadDen > len(t.slots)*loadNum {
		t.grow()
	}
}

func (t *Table) grow() {
	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.mask = uint64(len(t.slots) - 1)
	for _, s := range old {
		if !s.used {
			continue
		}
		i := s.hash & t.mask
		for t.slots[i].used {
			i = (i + 1) & t.mask
		}
		t.slots[i] = s
	}
}
