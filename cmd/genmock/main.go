// Command genmock writes a synthetic nuclear explosions dataset in the raw
// source column layout. It runs the generated table through the real cleaning
// step so the printed statistics match what the dashboard will load.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/nuclear_explosions.xlsx -rows 500
//	go run ./cmd/genmock -out data/mock/nuclear_explosions.csv -missing-rate 0
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/nuclear-dashboard/internal/adapter/tabular"
	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path (.xlsx or .csv)")
	sheet := flag.String("sheet", "", "worksheet name for .xlsx output (default Sheet1)")
	rows := flag.Int("rows", 300, "synthetic rows to generate after the notable detonations")
	seed := flag.Uint64("seed", 1945, "random seed")
	missingRate := flag.Float64("missing-rate", 0.05, "fraction of rows given a missing cell")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *missingRate < 0 || *missingRate > 1 {
		return fmt.Errorf("-missing-rate must be in [0, 1], got %g", *missingRate)
	}

	// Set a fixed clock for a reproducible LoadedAt in the printed stats.
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	table := generate(*rows, *seed, *missingRate)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(*out)); ext {
	case ".xlsx":
		if err := tabular.WriteXLSX(*out, *sheet, table); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
	case ".csv":
		if err := tabular.WriteCSV(*out, table); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output extension %q", ext)
	}
	log.Printf("wrote %d rows to %s", len(table.Rows), *out)

	ds, err := domain.CleanTable(table)
	if err != nil {
		return fmt.Errorf("cleaning generated table: %w", err)
	}
	printStats(ds)
	return nil
}

func printStats(ds *domain.Dataset) {
	fmt.Println()
	fmt.Printf("Rows read: %d, dropped: %d, records: %d\n", ds.RowsRead, ds.RowsDropped, len(ds.Records))

	fmt.Println("\nTop locations:")
	for i, c := range domain.CountByLocation(ds.Records) {
		if i == 10 {
			break
		}
		fmt.Printf("  %-28s %d\n", c.Key, c.Count)
	}

	fmt.Println("\nCountries:")
	for _, c := range domain.CountByCountry(ds.Records) {
		fmt.Printf("  %-10s %4d  %5.1f%%\n", c.Key, c.Count, c.Percent)
	}

	opts := domain.Options(ds)
	view := domain.Filter(ds.Records, opts.Defaults)
	fmt.Printf("\nDefault view: %d records at %v\n", len(view), opts.Defaults.Locations)
	for _, mode := range domain.DepthModes {
		params := opts.Defaults
		params.Depth = mode
		fmt.Printf("  %-13s %d\n", mode.String()+":", len(domain.Filter(ds.Records, params)))
	}
}
