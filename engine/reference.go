package engine

import (
	"fmt"

	"github.com/dolthub/swiss"

	"brc/agg"
	"brc/scan"
	"brc/source"
)

// Reference aggregates src in a single pass on the calling goroutine,
// independently of the partitioned path. It is meant for cross-checking.
func Reference(src source.Source) (*agg.Table, error) {
	buf, err := src.Slice(0, src.Len())
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}

	m := swiss.NewMap[string, agg.Stat](agg.DefaultSize)
	s := scan.New(buf)
	for {
		key, v, ok := s.Next()
		if !ok {
			break
		}
		st, found := m.Get(string(key))
		if !found {
			m.Put(string(key), agg.NewStat(v))
			continue
		}
		st.Add(v)
		m.Put(string(key), st)
	}

	t := agg.NewTable(m.Count())
	m.Iter(func(k string, st agg.Stat) bool {
		t.Combine([]byte(k), st)
		return false
	})
	return t, nil
}

// Verify checks that got matches a reference scan of src key by key.
func Verify(src source.Source, got *agg.Table) error {
	want, err := Reference(src)
	if err != nil {
		return err
	}
	if want.Len() != got.Len() {
		return fmt.Errorf("key count mismatch: reference %d, got %d", want.Len(), got.Len())
	}

	var mismatch error
	want.Each(func(k []byte, ws agg.Stat) {
		if mismatch != nil {
			return
		}
		gs, ok := got.Get(k)
		if !ok {
			mismatch = fmt.Errorf("key %q missing", k)
			return
		}
		if gs != ws {
			mismatch = fmt.Errorf("key %q: reference %+v, got %+v", k, ws, gs)
		}
	})
	return mismatch
}
