package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/jamiealquiza/tachymeter"
	"github.com/rodaine/table"

	"brc/engine"
	"brc/source"
)

var (
	filePath string
	rounds   int
)

func init() {
	flag.StringVar(&filePath, "filePath", "measurements.txt", "input file")
	flag.IntVar(&rounds, "rounds", 5, "runs per configuration")
}

type config struct {
	workers   int
	reduction engine.Reduction
}

func main() {
	flag.Parse()

	src, err := source.Open(filePath)
	if err != nil {
		slog.Error("unable to open input", slog.Any("err", err))
		os.Exit(1)
	}
	defer src.Close()

	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	tbl := table.
		New("Workers", "Merge", "Keys", "Min", "Avg", "P50", "Max", "MB/s").
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt)

	for _, cfg := range configs(runtime.NumCPU()) {
		t, keys, err := bench(src, cfg, rounds)
		if err != nil {
			slog.Error("bench failed", slog.Int("workers", cfg.workers), slog.Any("err", err))
			os.Exit(1)
		}
		m := t.Calc()
		tbl.AddRow(
			cfg.workers,
			cfg.reduction,
			keys,
			m.Time.Min,
			m.Time.Avg,
			m.Time.P50,
			m.Time.Max,
			throughput(src.Len(), m.Time.Avg),
		)
	}
	tbl.Print()
}

// configs doubles the worker count up to cpus, with both merge strategies
// at the top.
func configs(cpus int) []config {
	var out []config
	for w := 1; w < cpus; w *= 2 {
		out = append(out, config{workers: w, reduction: engine.Tree})
	}
	return append(out,
		config{workers: cpus, reduction: engine.Tree},
		config{workers: cpus, reduction: engine.Fold},
	)
}

func bench(src source.Source, cfg config, rounds int) (*tachymeter.Tachymeter, int, error) {
	t := tachymeter.New(&tachymeter.Config{Size: rounds})
	e := engine.New(engine.WithWorkers(cfg.workers), engine.WithReduction(cfg.reduction))

	keys := 0
	for range rounds {
		start := time.Now()
		res, err := e.Run(context.Background(), src)
		if err != nil {
			return nil, 0, err
		}
		t.AddTime(time.Since(start))
		keys = res.Table.Len()
	}
	return t, keys, nil
}

func throughput(bytes int64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(bytes) / (1 << 20) / d.Seconds()
}
