package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/nuclear-dashboard/internal/adapter/tabular"
	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
	"github.com/couchcryptid/nuclear-dashboard/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	sheet    string
	logLevel string
	jsonOut  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "nukectl",
		Short:        "Explore the nuclear explosions dataset",
		Long:         "Load a nuclear explosions workbook or CSV, clean it, and inspect filtered views of it.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "worksheet to read from an .xlsx dataset (default: first sheet)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newFilterCmd(opts))
	root.AddCommand(newRankCmd(opts))
	root.AddCommand(newPivotCmd(opts))
	root.AddCommand(newSnapshotCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newPublishCmd(opts))
	root.AddCommand(newValidateCmd(opts))

	return root
}

// load reads and cleans the dataset at path. Logs go to the command's stderr
// so stdout stays clean for CSV and JSON output.
func (o *globalOptions) load(cmd *cobra.Command, path string) (*pipeline.Pipeline, *domain.Dataset, error) {
	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), o.logLevel, "text")
	reader := tabular.NewFileReader(path, o.sheet, logger)
	p := pipeline.New(reader, logger, observability.NewMetricsWith(prometheus.NewRegistry()))

	ds, err := p.Load(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return p, ds, nil
}

// readRaw reads the dataset file without cleaning it.
func (o *globalOptions) readRaw(cmd *cobra.Command, path string) (domain.RawTable, error) {
	logger := observability.NewLoggerTo(cmd.ErrOrStderr(), o.logLevel, "text")
	return tabular.NewFileReader(path, o.sheet, logger).ReadTable(cmd.Context())
}

// filterFlags binds the view filters. Unset flags fall back to the dataset
// defaults; --location may repeat, and --location "" selects nothing.
type filterFlags struct {
	locations []string
	yearMin   int
	yearMax   int
	yieldMin  int
	yieldMax  int
	depth     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVar(&f.locations, "location", nil, "deployment location to include (repeatable; default: notable sites)")
	fs.IntVar(&f.yearMin, "year-min", 0, "first year to include (default: dataset minimum)")
	fs.IntVar(&f.yearMax, "year-max", 0, "last year to include (default: dataset maximum)")
	fs.IntVar(&f.yieldMin, "yield-min", 0, "minimum lower-bound yield in kilotons (default: dataset minimum)")
	fs.IntVar(&f.yieldMax, "yield-max", 0, "maximum lower-bound yield in kilotons (default: dataset maximum)")
	fs.StringVar(&f.depth, "depth", "all", "depth mode: above-ground, underground, all")
}

func (f *filterFlags) params(cmd *cobra.Command, p *pipeline.Pipeline) (domain.FilterParams, error) {
	opts, err := p.Options()
	if err != nil {
		return domain.FilterParams{}, err
	}
	params := opts.Defaults

	fs := cmd.Flags()
	if fs.Changed("location") {
		params.Locations = make([]string, 0, len(f.locations))
		for _, l := range f.locations {
			if l = strings.TrimSpace(l); l != "" {
				params.Locations = append(params.Locations, l)
			}
		}
	}
	if fs.Changed("year-min") {
		params.YearRange.Min = f.yearMin
	}
	if fs.Changed("year-max") {
		params.YearRange.Max = f.yearMax
	}
	if fs.Changed("yield-min") {
		params.YieldRange.Min = f.yieldMin
	}
	if fs.Changed("yield-max") {
		params.YieldRange.Max = f.yieldMax
	}
	mode, err := domain.ParseDepthMode(f.depth)
	if err != nil {
		return domain.FilterParams{}, err
	}
	params.Depth = mode

	if err := params.Validate(); err != nil {
		return domain.FilterParams{}, err
	}
	return params, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
