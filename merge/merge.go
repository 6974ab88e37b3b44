// Package merge reduces per-range aggregate tables into one.
//
// Both reductions rely only on agg.Combine being associative and
// commutative, so the result does not depend on table order or grouping.
package merge

import (
	"context"

	"github.com/eapache/queue/v2"
	"golang.org/x/sync/errgroup"

	"brc/agg"
)

// Fold merges tables left to right into a fresh table.
func Fold(tables ...*agg.Table) *agg.Table {
	hint := 0
	for _, t := range tables {
		hint = max(hint, t.Len())
	}
	out := agg.NewTable(hint)
	for _, t := range tables {
		out.Merge(t)
	}
	return out
}

// Tree merges tables pairwise in rounds, running up to parallelism pair
// merges at once. It takes ownership of tables: the left table of each
// pair absorbs the right one, and one of the inputs is returned.
func Tree(ctx context.Context, tables []*agg.Table, parallelism int) (*agg.Table, error) {
	if len(tables) == 0 {
		return agg.NewTable(0), nil
	}

	q := queue.New[*agg.Table]()
	for _, t := range tables {
		q.Add(t)
	}

	for q.Length() > 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pairs := make([][2]*agg.Table, 0, q.Length()/2)
		for q.Length() > 1 {
			pairs = append(pairs, [2]*agg.Table{q.Remove(), q.Remove()})
		}
		// An odd table out waits for the next round.
		var carry *agg.Table
		if q.Length() == 1 {
			carry = q.Remove()
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(parallelism, 1))
		for _, p := range pairs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p[0].Merge(p[1])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if carry != nil {
			q.Add(carry)
		}
		for _, p := range pairs {
			q.Add(p[0])
		}
	}
	return q.Remove(), nil
}
