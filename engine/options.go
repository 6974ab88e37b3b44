package engine

import "log/slog"

type Reduction int

const (
	Tree Reduction = iota
	Fold
)

func (r Reduction) String() string {
	switch r {
	case Tree:
		return "tree"
	case Fold:
		return "fold"
	}
	return "unknown"
}

type Option func(*Engine) *Engine

// WithWorkers sets how many ranges are aggregated concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) *Engine {
		if n > 0 {
			e.workers = n
		}
		return e
	}
}

// WithChunksPerWorker sets how many ranges are cut per worker.
func WithChunksPerWorker(n int) Option {
	return func(e *Engine) *Engine {
		if n > 0 {
			e.chunksPerWorker = n
		}
		return e
	}
}

func WithMinChunkSize(bytes int64) Option {
	return func(e *Engine) *Engine {
		e.minChunk = bytes
		return e
	}
}

func WithReduction(r Reduction) Option {
	return func(e *Engine) *Engine {
		e.reduction = r
		return e
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) *Engine {
		if l != nil {
			e.logger = l
		}
		return e
	}
}
