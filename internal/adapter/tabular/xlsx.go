package tabular

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
)

func readXLSX(path, sheet string) (domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return domain.RawTable{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	// Raw values keep numbers unformatted ("1962", not "1,962").
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return splitHeader(rows)
}

// WriteXLSX writes a table to a single-sheet workbook.
func WriteXLSX(path, sheet string, table domain.RawTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = cellValue(v)
		}
		return f.SetSheetRow(sheet, cell, &row)
	}

	if err := write(1, table.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range table.Rows {
		if err := write(i+2, r); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// cellValue stores numeric text as a number cell so the workbook looks like a
// spreadsheet export. Missing markers stay text.
func cellValue(v string) any {
	if domain.IsMissing(v) {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	return f
}
