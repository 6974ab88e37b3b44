package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"

	"github.com/pingcap/go-ycsb/pkg/generator"

	"brc/report"
)

type station struct {
	name string
	mean float64
}

// Mean annual temperatures, roughly.
var stations = []station{
	{"Abidjan", 26.0}, {"Addis Ababa", 16.0}, {"Alexandria", 20.0},
	{"Anchorage", 2.8}, {"Athens", 19.2}, {"Bangkok", 28.6},
	{"Bulawayo", 18.9}, {"Cairo", 21.4}, {"Chihuahua", 18.6},
	{"Dakar", 24.0}, {"Dubai", 26.9}, {"Hamburg", 9.7},
	{"Helsinki", 5.9}, {"Istanbul", 13.9}, {"Kraków", 8.3},
	{"Lima", 19.2}, {"Lisbon", 17.5}, {"Moscow", 5.8},
	{"Nuuk", -1.4}, {"Oslo", 5.7}, {"Palembang", 27.3},
	{"Paris", 12.3}, {"Reykjavík", 4.3}, {"São Paulo", 19.7},
	{"St. John's", 5.0}, {"Tokyo", 15.4}, {"Ürümqi", 7.4},
	{"Vladivostok", 4.9}, {"Yakutsk", -8.8}, {"Zürich", 9.3},
}

var (
	rows      int64
	seed      int64
	output    string
	malformed float64
)

func init() {
	flag.Int64Var(&rows, "rows", 1_000_000, "number of lines to generate")
	flag.Int64Var(&seed, "seed", 42, "random seed")
	flag.StringVar(&output, "output", "measurements.txt", "output file")
	flag.Float64Var(&malformed, "malformed", 0, "fraction of malformed lines")
}

func main() {
	flag.Parse()
	if err := generate(output, rows, seed, malformed); err != nil {
		slog.Error("generate failed", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("generated measurements", slog.String("output", output), slog.Int64("rows", rows))
}

func generate(path string, rows, seed int64, malformed float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	if err := write(w, rows, seed, malformed); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("unable to flush %s: %w", path, err)
	}
	return f.Close()
}

func write(w *bufio.Writer, rows, seed int64, malformed float64) error {
	r := rand.New(rand.NewSource(seed))
	g := generator.NewScrambledZipfian(0, int64(len(stations)-1), generator.ZipfianConstant)

	var line []byte
	for range rows {
		s := stations[g.Next(r)]
		line = append(line[:0], s.name...)
		if malformed > 0 && r.Float64() < malformed {
			line = append(line, '\n')
		} else {
			line = append(line, ';')
			line = report.FormatTenths(line, temperature(r, s.mean))
			line = append(line, '\n')
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("unable to write line: %w", err)
		}
	}
	return nil
}

// temperature draws around mean and returns tenths clamped to [-99.9, 99.9].
func temperature(r *rand.Rand, mean float64) int64 {
	v := math.Round((mean + r.NormFloat64()*10) * 10)
	return int64(max(min(v, 999), -999))
}
