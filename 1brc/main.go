package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/profile"

	"brc/engine"
	"brc/partition"
	"brc/report"
	"brc/source"
)

var (
	filePath        string
	outputPath      string
	numWorkers      int
	chunksPerWorker int
	minChunk        int64
	reader          string
	reduce          string
	showStats       bool
	verify          bool
	profileMode     string
	debug           bool
)

func init() {
	flag.StringVar(&filePath, "filePath", "measurements.txt", "input file")
	flag.StringVar(&outputPath, "output", "", "output file (stdout if empty)")
	flag.IntVar(&numWorkers, "numWorkers", runtime.NumCPU(), "number of workers")
	flag.IntVar(&chunksPerWorker, "chunksPerWorker", engine.DEFAULT_CHUNKS_PER_WORKER, "ranges cut per worker")
	flag.Int64Var(&minChunk, "minChunk", partition.DefaultMinChunk, "minimum range size in bytes")
	flag.StringVar(&reader, "reader", "mmap", "input reader: mmap or readerat")
	flag.StringVar(&reduce, "reduce", "tree", "merge strategy: tree or fold")
	flag.BoolVar(&showStats, "stats", false, "print per-range statistics to stderr")
	flag.BoolVar(&verify, "verify", false, "cross-check against a single-threaded scan")
	flag.StringVar(&profileMode, "profile", "", "profile: cpu or mem")
	flag.BoolVar(&debug, "debug", false, "debug logging")
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var prof interface{ Stop() }
	switch profileMode {
	case "":
	case "cpu":
		prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		prof = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		logger.Error("unknown profile mode", slog.String("profile", profileMode))
		os.Exit(1)
	}

	err := run(context.Background(), logger)
	// Stop before exiting so the profile is flushed.
	if prof != nil {
		prof.Stop()
	}
	if err != nil {
		logger.Error("run failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	src, err := open(filePath, reader)
	if err != nil {
		return err
	}
	defer src.Close()

	reduction := engine.Tree
	switch reduce {
	case "tree":
	case "fold":
		reduction = engine.Fold
	default:
		return fmt.Errorf("unknown merge strategy %q", reduce)
	}

	e := engine.New(
		engine.WithWorkers(numWorkers),
		engine.WithChunksPerWorker(chunksPerWorker),
		engine.WithMinChunkSize(minChunk),
		engine.WithReduction(reduction),
		engine.WithLogger(logger),
	)

	res, err := e.Run(ctx, src)
	if err != nil {
		return err
	}

	if showStats {
		printStats(res.Partitions)
	}

	if verify {
		if err := engine.Verify(src, res.Table); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("verified against single-threaded scan", slog.Int("keys", res.Table.Len()))
	}

	if outputPath == "" {
		return report.Write(os.Stdout, res.Table)
	}
	return report.WriteFile(outputPath, res.Table)
}

func open(path, kind string) (source.Source, error) {
	switch kind {
	case "mmap":
		return source.Open(path)
	case "readerat":
		return source.OpenReaderAt(path)
	}
	return nil, fmt.Errorf("unknown reader %q", kind)
}

func printStats(parts []engine.PartitionStats) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Range", "Bytes", "Lines", "Records", "Malformed", "Keys", "Elapsed"})
	for _, p := range parts {
		table.Append([]string{
			p.Range.String(),
			strconv.FormatInt(p.Range.Len(), 10),
			strconv.FormatInt(p.Lines, 10),
			strconv.FormatInt(p.Records, 10),
			strconv.FormatInt(p.Malformed, 10),
			strconv.Itoa(p.Keys),
			p.Elapsed.String(),
		})
	}
	table.Render()
}
