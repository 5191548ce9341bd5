// Package export serializes filtered views of the canonical dataset.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
)

// Filename is the suggested download name for a CSV export.
const Filename = "Filtered_Data.csv"

// ContentType is the media type of a CSV export.
const ContentType = "text/csv; charset=utf-8"

// Write emits a header row of columns followed by one row per record, in view
// order. Derived values such as the average yield are not written.
func Write(w io.Writer, columns []string, records []domain.Explosion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for i, rec := range records {
		for j, c := range columns {
			row[j] = rec.Field(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Parse reads an export back into a raw table.
func Parse(r io.Reader) (domain.RawTable, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, errors.New("empty export")
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read rows: %w", err)
	}
	return domain.RawTable{Header: header, Rows: rows}, nil
}
