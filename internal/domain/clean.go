package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MissingSentinel is the literal the source uses for a missing value, in
// addition to empty cells.
const MissingSentinel = "Nan"

// ColumnRenames maps source column names to canonical names. Columns not
// listed keep their source name.
var ColumnRenames = map[string]string{
	"Data.Source":                   ColSource,
	"Location.Cordinates.Latitude":  ColLatitude,
	"Location.Cordinates.Longitude": ColLongitude,
	"Data.Magnitude.Body":           ColMagnitudeBody,
	"Data.Magnitude.Surface":        ColMagnitudeSurface,
	"Location.Cordinates.Depth":     ColDepth,
	"Data.Yeild.Lower":              ColYieldLower,
	"Data.Yeild.Upper":              ColYieldUpper,
	"Data.Purpose":                  ColPurpose,
	"Data.Name":                     ColName,
	"Data.Type":                     ColType,
	"Date.Day":                      ColDay,
	"Date.Month":                    ColMonth,
	"Date.Year":                     ColYear,
}

// requiredColumns are the canonical columns every downstream view reads.
var requiredColumns = []string{
	ColName, ColDay, ColMonth, ColYear,
	ColLatitude, ColLongitude, ColDepth,
	ColLocation, ColCountry, ColPurpose, ColType,
	ColMagnitudeBody, ColMagnitudeSurface, ColYieldLower, ColYieldUpper,
}

// derivedColumns are computed on every clean. A source column with one of
// these names keeps its position but its values are replaced; the rest are
// appended.
var derivedColumns = []string{ColMagnitudeCategory, ColDate, ColWeekOfYear}

// CleanTable turns a raw table into the canonical dataset. Rows with any
// missing cell are dropped. Any row that survives the drop but cannot be
// parsed, including an impossible calendar date, fails the whole clean with a
// *DataIntegrityError; no partial dataset is returned.
func CleanTable(table RawTable) (*Dataset, error) {
	columns := RenameColumns(table.Header)
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			return nil, &DataIntegrityError{Column: c, Reason: "required column missing from source"}
		}
	}

	ds := &Dataset{
		Records:  make([]Explosion, 0, len(table.Rows)),
		Columns:  datasetColumns(columns),
		RowsRead: len(table.Rows),
		LoadedAt: clock.Now(),
	}

	for i, row := range table.Rows {
		if hasMissing(row, len(columns)) {
			ds.RowsDropped++
			continue
		}
		rec, err := parseRow(i+1, columns, index, row)
		if err != nil {
			return nil, err
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

// datasetColumns lists the source columns followed by the derived columns the
// source does not already carry.
func datasetColumns(columns []string) []string {
	out := append(make([]string, 0, len(columns)+len(derivedColumns)), columns...)
	for _, d := range derivedColumns {
		if !slices.Contains(columns, d) {
			out = append(out, d)
		}
	}
	return out
}

// RenameColumns maps source headers to canonical names, keeping unknown
// headers unchanged.
func RenameColumns(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if c, ok := ColumnRenames[h]; ok {
			out[i] = c
			continue
		}
		out[i] = h
	}
	return out
}

// nullTokens are the spellings spreadsheet and CSV tooling writes for an empty
// value. They are read as missing exactly like an empty cell.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a cell holds no value: an empty cell, a null
// token, or the "Nan" sentinel.
func IsMissing(cell string) bool {
	if cell == MissingSentinel {
		return true
	}
	_, ok := nullTokens[cell]
	return ok
}

// hasMissing reports whether any of the first width cells is missing. Cells
// beyond the end of a short row count as missing.
func hasMissing(row []string, width int) bool {
	if len(row) < width {
		return true
	}
	for _, cell := range row[:width] {
		if IsMissing(cell) {
			return true
		}
	}
	return false
}

// rowParser accumulates the first parse failure so a record can be built in
// one pass.
type rowParser struct {
	rowNum int
	row    []string
	index  map[string]int
	err    error
}

func (p *rowParser) text(col string) string {
	return p.row[p.index[col]]
}

func (p *rowParser) float(col string) float64 {
	if p.err != nil {
		return 0
	}
	raw := p.text(col)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		p.err = &DataIntegrityError{Row: p.rowNum, Column: col, Value: raw, Reason: "not a number"}
		return 0
	}
	return v
}

// int accepts integral float spellings such as "1962.0", which spreadsheet
// exports produce for numeric cells.
func (p *rowParser) int(col string) int {
	if p.err != nil {
		return 0
	}
	raw := p.text(col)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v != math.Trunc(v) {
		p.err = &DataIntegrityError{Row: p.rowNum, Column: col, Value: raw, Reason: "not an integer"}
		return 0
	}
	return int(v)
}

func parseRow(rowNum int, columns []string, index map[string]int, row []string) (Explosion, error) {
	p := &rowParser{rowNum: rowNum, row: row, index: index}

	rec := Explosion{
		Name:             p.text(ColName),
		Day:              p.int(ColDay),
		Month:            p.int(ColMonth),
		Year:             p.int(ColYear),
		Latitude:         p.float(ColLatitude),
		Longitude:        p.float(ColLongitude),
		Depth:            p.float(ColDepth),
		Location:         NormalizeLocation(p.text(ColLocation)),
		Country:          p.text(ColCountry),
		Purpose:          NormalizePurpose(p.text(ColPurpose)),
		Type:             NormalizeType(p.text(ColType)),
		MagnitudeBody:    p.float(ColMagnitudeBody),
		MagnitudeSurface: p.float(ColMagnitudeSurface),
		YieldLower:       p.float(ColYieldLower),
		YieldUpper:       p.float(ColYieldUpper),
	}
	if p.err != nil {
		return Explosion{}, p.err
	}
	if i, ok := index[ColSource]; ok {
		rec.Source = row[i]
	}

	for i, c := range columns {
		if isCanonical(c) || slices.Contains(derivedColumns, c) {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]string)
		}
		rec.Extra[c] = row[i]
	}

	date, err := BuildDate(rec.Day, rec.Month, rec.Year)
	if err != nil {
		return Explosion{}, &DataIntegrityError{
			Row:    rowNum,
			Column: ColDate,
			Value:  fmt.Sprintf("%d-%d-%d", rec.Year, rec.Month, rec.Day),
			Reason: err.Error(),
		}
	}
	rec.Date = date
	_, rec.WeekOfYear = date.ISOWeek()
	rec.MagnitudeCategory = CategorizeMagnitude(rec.MagnitudeBody)
	return rec, nil
}

func isCanonical(col string) bool {
	switch col {
	case ColName, ColSource, ColLatitude, ColLongitude, ColDepth,
		ColMagnitudeBody, ColMagnitudeSurface, ColYieldLower, ColYieldUpper,
		ColPurpose, ColType, ColDay, ColMonth, ColYear, ColLocation, ColCountry:
		return true
	}
	return false
}

// BuildDate composes a UTC calendar date, rejecting values that time.Date
// would silently normalize (February 30, month 13).
func BuildDate(day, month, year int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if year < 1 {
		return time.Time{}, fmt.Errorf("year %d out of range", year)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("day %d out of range for %d-%02d", day, year, month)
	}
	return t, nil
}

// CategorizeMagnitude buckets a body wave magnitude.
func CategorizeMagnitude(body float64) string {
	switch {
	case body > 5:
		return MagnitudeHigh
	case body > 3:
		return MagnitudeModerate
	default:
		return MagnitudeLow
	}
}
