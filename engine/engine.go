package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"brc/agg"
	"brc/merge"
	"brc/partition"
	"brc/scan"
	"brc/source"
)

const (
	DEFAULT_CHUNKS_PER_WORKER = 2

	// How many records a worker scans between cancellation checks.
	cancelCheckEvery = 1 << 16
)

type Engine struct {
	workers         int
	chunksPerWorker int
	minChunk        int64
	reduction       Reduction
	logger          *slog.Logger
}

type PartitionStats struct {
	Range     partition.Range
	Lines     int64
	Records   int64
	Malformed int64
	Keys      int
	Elapsed   time.Duration
}

type Result struct {
	Table      *agg.Table
	Partitions []PartitionStats
}

// WorkerError reports the range whose aggregation failed. A run that
// returns it produces no table.
type WorkerError struct {
	Range partition.Range
	Err   error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker for range %s failed: %v", e.Range, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

func New(options ...Option) *Engine {
	e := &Engine{
		workers:         runtime.NumCPU(),
		chunksPerWorker: DEFAULT_CHUNKS_PER_WORKER,
		minChunk:        partition.DefaultMinChunk,
		reduction:       Tree,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		e = opt(e)
	}
	return e
}

// Run aggregates src. Any worker failure aborts the whole run.
func (e *Engine) Run(ctx context.Context, src source.Source) (*Result, error) {
	start := time.Now()
	size := src.Len()
	if size == 0 {
		e.logger.Info("empty input")
		return &Result{Table: agg.NewTable(0)}, nil
	}

	n := partition.Count(size, e.workers*e.chunksPerWorker, e.minChunk)
	ranges, err := partition.Split(src, n)
	if err != nil {
		return nil, fmt.Errorf("unable to partition input: %w", err)
	}
	e.logger.Debug("partitioned input",
		slog.Int64("bytes", size),
		slog.Int("ranges", len(ranges)),
		slog.Int("workers", e.workers))

	tables := make([]*agg.Table, len(ranges))
	stats := make([]PartitionStats, len(ranges))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, r := range ranges {
		g.Go(func() error {
			t, st, err := e.aggregate(gctx, src, r)
			if err != nil {
				return &WorkerError{Range: r, Err: err}
			}
			tables[i], stats[i] = t, st
			e.logger.Debug("aggregated range",
				slog.String("range", r.String()),
				slog.Int64("records", st.Records),
				slog.Int64("malformed", st.Malformed),
				slog.Duration("elapsed", st.Elapsed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var table *agg.Table
	switch e.reduction {
	case Fold:
		table = merge.Fold(tables...)
	default:
		table, err = merge.Tree(ctx, tables, e.workers)
		if err != nil {
			return nil, fmt.Errorf("unable to merge partial tables: %w", err)
		}
	}

	e.logger.Info("aggregated input",
		slog.Int64("bytes", size),
		slog.Int("ranges", len(ranges)),
		slog.Int("keys", table.Len()),
		slog.String("reduction", e.reduction.String()),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{Table: table, Partitions: stats}, nil
}

func (e *Engine) aggregate(ctx context.Context, src source.Source, r partition.Range) (*agg.Table, PartitionStats, error) {
	start := time.Now()
	st := PartitionStats{Range: r}

	buf, err := src.Slice(r.Start, r.End)
	if err != nil {
		return nil, st, fmt.Errorf("unable to read range: %w", err)
	}

	t := agg.NewTable(agg.DefaultSize)
	s := scan.New(buf)
	for {
		key, v, ok := s.Next()
		if !ok {
			break
		}
		t.Update(key, v)
		st.Records++
		if st.Records%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, st, err
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, st, err
	}

	st.Lines = s.Lines()
	st.Malformed = s.Malformed()
	st.Keys = t.Len()
	st.Elapsed = time.Since(start)
	return t, st, nil
}
