package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/export"
	"github.com/spf13/cobra"
)

// maxReported caps the detailed errors printed per phase.
const maxReported = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Check the cleaned dataset for internal consistency",
		Long: `Load the dataset and verify that every record is normalized, that derived
fields agree with their sources, that the default filters partition the
dataset correctly, and that a CSV export reads back unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ds, err := opts.load(cmd, args[0])
			if err != nil {
				return err
			}
			raw, err := opts.readRaw(cmd, args[0])
			if err != nil {
				return err
			}

			phases := []*phase{
				validateNormalization(raw, ds.Records),
				validateDerivedFields(ds.Records),
				validateDefaultFilter(ds),
				validateExportRoundTrip(ds),
			}
			if !report(cmd.OutOrStdout(), ds, phases) {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}

func report(w io.Writer, ds *domain.Dataset, phases []*phase) bool {
	fmt.Fprintln(w, "=== Nuclear Explosions Dataset Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d read, %d dropped, %d records\n", ds.RowsRead, ds.RowsDropped, len(ds.Records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(w, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return false
}

// ── Phase 1: Normalization ──
// Each record must carry the normalized form of its own raw row. Checking a
// cleaned value alone is ambiguous: raw "SHIP" correctly cleans to "Ship",
// which is also the raw code for "Ship-Based".

func validateNormalization(raw domain.RawTable, records []domain.Explosion) *phase {
	p := &phase{name: "Phase 1: Normalization"}

	kept := keptRows(raw)
	if len(kept) != len(records) {
		p.errorf("%d raw rows have no missing cells, dataset has %d records", len(kept), len(records))
		return p
	}

	index := make(map[string]int)
	for i, c := range domain.RenameColumns(raw.Header) {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	cell := func(row []string, col string) string { return row[index[col]] }

	for i, r := range records {
		row := kept[i]
		if want := domain.NormalizeLocation(cell(row, domain.ColLocation)); r.Location != want {
			p.errorf("record %d (%s): location %q, expected %q", i, r.Name, r.Location, want)
		}
		if want := domain.NormalizePurpose(cell(row, domain.ColPurpose)); r.Purpose != want {
			p.errorf("record %d (%s): purpose %q, expected %q", i, r.Name, r.Purpose, want)
		}
		if want := domain.NormalizeType(cell(row, domain.ColType)); r.Type != want {
			p.errorf("record %d (%s): type %q, expected %q", i, r.Name, r.Type, want)
		}
	}
	return p
}

// keptRows returns the raw rows that survive the missing-value drop, in order.
func keptRows(raw domain.RawTable) [][]string {
	width := len(raw.Header)
	out := make([][]string, 0, len(raw.Rows))
rows:
	for _, row := range raw.Rows {
		if len(row) < width {
			continue
		}
		for _, c := range row[:width] {
			if domain.IsMissing(c) {
				continue rows
			}
		}
		out = append(out, row)
	}
	return out
}

// ── Phase 2: Derived fields ──
// Date, week of year, and magnitude category must follow from their sources.

func validateDerivedFields(records []domain.Explosion) *phase {
	p := &phase{name: "Phase 2: Derived Fields"}
	for i, r := range records {
		date, err := domain.BuildDate(r.Day, r.Month, r.Year)
		switch {
		case err != nil:
			p.errorf("record %d (%s): %v", i, r.Name, err)
		case !date.Equal(r.Date):
			p.errorf("record %d (%s): date %s does not match %d-%d-%d", i, r.Name, r.Date.Format(domain.DateLayout), r.Year, r.Month, r.Day)
		}
		if _, week := r.Date.ISOWeek(); week != r.WeekOfYear {
			p.errorf("record %d (%s): week %d, expected %d", i, r.Name, r.WeekOfYear, week)
		}
		if want := domain.CategorizeMagnitude(r.MagnitudeBody); want != r.MagnitudeCategory {
			p.errorf("record %d (%s): magnitude category %q, expected %q for body %g", i, r.Name, r.MagnitudeCategory, want, r.MagnitudeBody)
		}
	}
	return p
}

// ── Phase 3: Default filter ──
// The default view must hold exactly the records that satisfy every predicate.

func validateDefaultFilter(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 3: Default Filter Partition"}
	params := domain.Options(ds).Defaults
	view := domain.Filter(ds.Records, params)

	locations := make(map[string]struct{}, len(params.Locations))
	for _, l := range params.Locations {
		locations[l] = struct{}{}
	}
	matched := 0
	for _, r := range ds.Records {
		if domain.Matches(r, params, locations) {
			matched++
		}
	}
	if matched != len(view) {
		p.errorf("default view has %d records, %d records satisfy the predicates", len(view), matched)
	}
	for i, r := range view {
		if !domain.Matches(r, params, locations) {
			p.errorf("view record %d (%s) fails the predicates", i, r.Name)
		}
	}
	return p
}

// ── Phase 4: Export round trip ──

func validateExportRoundTrip(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 4: CSV Export Round Trip"}

	var buf bytes.Buffer
	if err := export.Write(&buf, ds.Columns, ds.Records); err != nil {
		p.errorf("write export: %v", err)
		return p
	}
	table, err := export.Parse(&buf)
	if err != nil {
		p.errorf("parse export: %v", err)
		return p
	}
	if len(table.Rows) != len(ds.Records) {
		p.errorf("export has %d rows, dataset has %d records", len(table.Rows), len(ds.Records))
		return p
	}
	for i, r := range ds.Records {
		for j, c := range ds.Columns {
			if got, want := table.Rows[i][j], r.Field(c); got != want {
				p.errorf("record %d (%s) column %q: exported %q, expected %q", i, r.Name, c, got, want)
			}
		}
	}
	return p
}
