package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/nuclear-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/nuclear-dashboard/internal/config"
	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/export"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

type summary struct {
	Path        string          `json:"path"`
	RowsRead    int             `json:"rows_read"`
	RowsDropped int             `json:"rows_dropped"`
	Records     int             `json:"records"`
	Locations   int             `json:"locations"`
	Columns     []string        `json:"columns"`
	YearBounds  domain.IntRange `json:"year_bounds"`
	YieldBounds domain.IntRange `json:"yield_bounds"`
	Defaults    []string        `json:"default_locations"`
	LoadedAt    time.Time       `json:"loaded_at"`
}

func newSummaryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <dataset>",
		Short: "Show row counts and filter bounds for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ds, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			fo, err := p.Options()
			if err != nil {
				return err
			}
			s := summary{
				Path:        args[0],
				RowsRead:    ds.RowsRead,
				RowsDropped: ds.RowsDropped,
				Records:     len(ds.Records),
				Locations:   len(fo.Locations),
				Columns:     ds.Columns,
				YearBounds:  fo.YearBounds,
				YieldBounds: fo.YieldBounds,
				Defaults:    fo.Defaults.Locations,
				LoadedAt:    ds.LoadedAt,
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), s)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Dataset:\t%s\n", s.Path)
			fmt.Fprintf(tw, "Rows read:\t%d\n", s.RowsRead)
			fmt.Fprintf(tw, "Rows dropped:\t%d\n", s.RowsDropped)
			fmt.Fprintf(tw, "Records:\t%d\n", s.Records)
			fmt.Fprintf(tw, "Locations:\t%d\n", s.Locations)
			fmt.Fprintf(tw, "Years:\t%d - %d\n", s.YearBounds.Min, s.YearBounds.Max)
			fmt.Fprintf(tw, "Lower yield (kt):\t%d - %d\n", s.YieldBounds.Min, s.YieldBounds.Max)
			fmt.Fprintf(tw, "Default locations:\t%v\n", s.Defaults)
			return tw.Flush()
		},
	}
}

func newFilterCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "filter <dataset>",
		Short: "Print the records matching the filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Evaluate("filter", params)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tLOCATION\tCOUNTRY\tDATE\tDEPTH\tYIELD (KT)\tMAGNITUDE")
			for _, r := range view {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s-%s\t%s\n",
					r.Name, r.Location, r.Country, r.Date.Format(domain.DateLayout),
					formatFloat(r.Depth), formatFloat(r.YieldLower), formatFloat(r.YieldUpper),
					r.MagnitudeCategory)
			}
			fmt.Fprintf(tw, "\n%d records\n", len(view))
			return tw.Flush()
		},
	}
	ff.register(cmd)
	return cmd
}

func newRankCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	var top int
	cmd := &cobra.Command{
		Use:   "rank <dataset>",
		Short: "Rank the filtered detonations by average yield",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Evaluate("ranking", params)
			if err != nil {
				return err
			}
			ranking := domain.RankByAverageYield(view)
			if top > 0 && top < len(ranking) {
				ranking = ranking[:top]
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), ranking)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "#\tNAME\tAVG YIELD (KT)\tMAGNITUDE\tCOUNTRY")
			for i, r := range ranking {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Name, formatFloat(r.AvgYield), r.MagnitudeCategory, r.Country)
			}
			return tw.Flush()
		},
	}
	ff.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "show only the first N entries (0 = all)")
	return cmd
}

func newPivotCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "pivot <dataset>",
		Short: "Count filtered detonations by purpose and location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Evaluate("pivot", params)
			if err != nil {
				return err
			}
			pivot := domain.PivotCounts(view)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), pivot)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprint(tw, "PURPOSE")
			for _, l := range pivot.Locations {
				fmt.Fprintf(tw, "\t%s", l)
			}
			fmt.Fprintln(tw, "\tTOTAL")

			rowTotals := pivot.RowTotals()
			for _, purpose := range pivot.Purposes {
				fmt.Fprint(tw, purpose)
				for _, l := range pivot.Locations {
					fmt.Fprintf(tw, "\t%d", pivot.Cell(purpose, l))
				}
				fmt.Fprintf(tw, "\t%d\n", rowTotals[purpose])
			}

			colTotals := pivot.ColumnTotals()
			fmt.Fprint(tw, "TOTAL")
			for _, l := range pivot.Locations {
				fmt.Fprintf(tw, "\t%d", colTotals[l])
			}
			fmt.Fprintf(tw, "\t%d\n", pivot.Total())
			return tw.Flush()
		},
	}
	ff.register(cmd)
	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	var output string
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Write the filtered records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Evaluate("export", params)
			if err != nil {
				return err
			}
			columns, err := p.Columns()
			if err != nil {
				return err
			}

			if output == "-" {
				return export.Write(cmd.OutOrStdout(), columns, view)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export: %w", err)
			}
			defer f.Close()
			if err := export.Write(f, columns, view); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(view), output)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", export.Filename, `output file, or "-" for stdout`)
	return cmd
}

func newPublishCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	var brokers, topic string
	cmd := &cobra.Command{
		Use:   "publish <dataset>",
		Short: "Publish the filtered records to a Kafka topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if brokers == "" {
				return errors.New("--brokers or KAFKA_BROKERS is required")
			}
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Evaluate("publish", params)
			if err != nil {
				return err
			}

			cfg := &config.Config{
				KafkaEnabled:     true,
				KafkaBrokers:     sharedcfg.ParseBrokers(brokers),
				KafkaExportTopic: topic,
			}
			logger := observability.NewLoggerTo(cmd.ErrOrStderr(), opts.logLevel, "text")
			pub := kafka.NewPublisher(cfg, logger)
			defer pub.Close()

			n, err := pub.Publish(cmd.Context(), view)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d records to %s\n", n, topic)
			return nil
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&brokers, "brokers", os.Getenv("KAFKA_BROKERS"), "comma-separated Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", sharedcfg.EnvOrDefault("KAFKA_EXPORT_TOPIC", "nuclear-explosions-export"), "Kafka topic")
	return cmd
}

func newSnapshotCmd(opts *globalOptions) *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "snapshot <dataset>",
		Short: "Print every dashboard artifact for the filtered view as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			params, err := ff.params(cmd, p)
			if err != nil {
				return err
			}
			snap, err := p.Snapshot(params)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
	ff.register(cmd)
	return cmd
}
