package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sourceHeader = []string{
	"WEAPON SOURCE COUNTRY", "WEAPON DEPLOYMENT LOCATION", "Data.Source",
	"Location.Cordinates.Latitude", "Location.Cordinates.Longitude",
	"Data.Magnitude.Body", "Data.Magnitude.Surface", "Location.Cordinates.Depth",
	"Data.Yeild.Lower", "Data.Yeild.Upper", "Data.Purpose", "Data.Name", "Data.Type",
	"Date.Day", "Date.Month", "Date.Year",
}

// sourceRow builds a raw row in sourceHeader order.
func sourceRow(country, location, name, purpose, typ, body, depth, lower, upper, day, month, year string) []string {
	return []string{
		country, location, "DOE", "37.1", "-116.05",
		body, "0", depth, lower, upper, purpose, name, typ,
		day, month, year,
	}
}

func TestCleanTable(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	table := RawTable{
		Header: sourceHeader,
		Rows: [][]string{
			sourceRow("USA", "Hiroshima", "Little Boy", "Combat", "Airdrop", "0", "-0.6", "15", "15", "6", "8", "1945"),
			sourceRow("USSR", "Semi Kazakh", "", "Wr", "Ug", "5.5", "0.3", "100", "150", "1", "1", "1970"),
			sourceRow("USSR", "Semi Kazakh", "Nan", "Wr", "Ug", "5.5", "0.3", "100", "150", "1", "1", "1971"),
			sourceRow("FRANCE", "Hururoa", "Nan", "Wr/Se", "Shaft/Gr", "4.1", "0.5", "20", "150", "30", "12", "1981.0"),
			{"USA", "Nevada"},
		},
	}

	ds, err := CleanTable(table)
	require.NoError(t, err)

	assert.Equal(t, 5, ds.RowsRead)
	assert.Equal(t, 4, ds.RowsDropped)
	assert.Equal(t, fixed, ds.LoadedAt)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Equal(t, "Little Boy", rec.Name)
	assert.Equal(t, "DOE", rec.Source)
	assert.Equal(t, "Hiroshima", rec.Location)
	assert.Equal(t, "USA", rec.Country)
	assert.Equal(t, "Combat Detonation", rec.Purpose)
	assert.Equal(t, "Airdrop", rec.Type)
	assert.Equal(t, time.Date(1945, 8, 6, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, 32, rec.WeekOfYear)
	assert.Equal(t, MagnitudeLow, rec.MagnitudeCategory)
	assert.Equal(t, -0.6, rec.Depth)
	assert.Equal(t, 37.1, rec.Latitude)
	assert.Equal(t, -116.05, rec.Longitude)
	assert.Equal(t, 15.0, rec.AvgYield())
	assert.Nil(t, rec.Extra)
}

func TestCleanTable_NormalizesSurvivingRows(t *testing.T) {
	table := RawTable{
		Header: sourceHeader,
		Rows: [][]string{
			sourceRow("USSR", "Semi Kazakh", "Test 1", "Wr", "Ug", "5.5", "0.3", "100", "150", "1", "1", "1970"),
			sourceRow("FRANCE", "Hururoa", "Test 2", "Wr/Se", "Shaft/Gr", "4.1", "0.5", "20", "150", "30", "12", "1981.0"),
		},
	}

	ds, err := CleanTable(table)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)

	assert.Equal(t, "Semipalatinsk", ds.Records[0].Location)
	assert.Equal(t, "Weapon-Related", ds.Records[0].Purpose)
	assert.Equal(t, "Underground", ds.Records[0].Type)
	assert.Equal(t, MagnitudeHigh, ds.Records[0].MagnitudeCategory)
	assert.Equal(t, 1, ds.Records[0].WeekOfYear)

	assert.Equal(t, "Mururoa", ds.Records[1].Location)
	assert.Equal(t, "Weapon-Related Structural Engineering", ds.Records[1].Purpose)
	assert.Equal(t, "Shaft Ground-Based", ds.Records[1].Type)
	assert.Equal(t, MagnitudeModerate, ds.Records[1].MagnitudeCategory)
	assert.Equal(t, 1981, ds.Records[1].Year)
	assert.Equal(t, 53, ds.Records[1].WeekOfYear)
}

func TestCleanTable_KeepsUnknownColumns(t *testing.T) {
	header := append(append([]string{}, sourceHeader...), "Notes")
	row := append(sourceRow("UK", "Monteb Austr", "Hurricane", "Wr", "Ship", "3", "-2", "25", "25", "3", "10", "1952"), "first UK test")

	ds, err := CleanTable(RawTable{Header: header, Rows: [][]string{row}})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	assert.Equal(t, "first UK test", ds.Records[0].Extra["Notes"])
	assert.Equal(t, "first UK test", ds.Records[0].Field("Notes"))
	assert.Equal(t, "Monte Bello", ds.Records[0].Location)
	assert.Equal(t, "Ship-Based", ds.Records[0].Type)

	assert.Equal(t, []string{
		ColCountry, ColLocation, ColSource, ColLatitude, ColLongitude,
		ColMagnitudeBody, ColMagnitudeSurface, ColDepth, ColYieldLower, ColYieldUpper,
		ColPurpose, ColName, ColType, ColDay, ColMonth, ColYear, "Notes",
		ColMagnitudeCategory, ColDate, ColWeekOfYear,
	}, ds.Columns)
}

func TestCleanTable_RecomputesDerivedSourceColumns(t *testing.T) {
	header := append([]string{ColDate}, sourceHeader...)
	header = append(header, ColMagnitudeCategory)
	row := append([]string{"1900-01-01"}, sourceRow("UK", "Emu Austr", "Totem 1", "Wr", "Tower", "5.2", "-31", "9", "9", "15", "10", "1953")...)
	row = append(row, "Low")

	ds, err := CleanTable(RawTable{Header: header, Rows: [][]string{row}})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Nil(t, rec.Extra)
	assert.Equal(t, "1953-10-15", rec.Field(ColDate))
	assert.Equal(t, MagnitudeHigh, rec.Field(ColMagnitudeCategory))

	assert.Len(t, ds.Columns, len(sourceHeader)+3)
	assert.Equal(t, ColDate, ds.Columns[0])
	assert.Equal(t, ColMagnitudeCategory, ds.Columns[len(ds.Columns)-2])
	assert.Equal(t, ColWeekOfYear, ds.Columns[len(ds.Columns)-1])
}

func TestCleanTable_DropsRowMissingUnusedColumn(t *testing.T) {
	header := append(append([]string{}, sourceHeader...), "Notes")
	row := append(sourceRow("UK", "Emu Austr", "Totem 1", "Wr", "Tower", "3", "-31", "9", "9", "15", "10", "1953"), "Nan")

	ds, err := CleanTable(RawTable{Header: header, Rows: [][]string{row}})
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
	assert.Equal(t, 1, ds.RowsDropped)
}

func TestCleanTable_InvalidDateFailsLoad(t *testing.T) {
	table := RawTable{
		Header: sourceHeader,
		Rows: [][]string{
			sourceRow("USA", "Nevada", "Ok", "Wr", "Shaft", "4", "0.2", "1", "2", "1", "1", "1960"),
			sourceRow("USA", "Nevada", "Bad", "Wr", "Shaft", "4", "0.2", "1", "2", "30", "2", "1960"),
		},
	}

	ds, err := CleanTable(table)
	require.Error(t, err)
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	var integrity *DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, 2, integrity.Row)
	assert.Equal(t, ColDate, integrity.Column)
}

func TestCleanTable_NonNumericFailsLoad(t *testing.T) {
	table := RawTable{
		Header: sourceHeader,
		Rows: [][]string{
			sourceRow("USA", "Nevada", "Bad", "Wr", "Shaft", "four", "0.2", "1", "2", "1", "1", "1960"),
		},
	}

	_, err := CleanTable(table)
	var integrity *DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, ColMagnitudeBody, integrity.Column)
	assert.Equal(t, "four", integrity.Value)
}

func TestCleanTable_MissingRequiredColumn(t *testing.T) {
	_, err := CleanTable(RawTable{Header: sourceHeader[:10]})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Contains(t, err.Error(), "required column missing")
}

func TestIsMissing(t *testing.T) {
	for _, cell := range []string{"", "Nan", "NaN", "nan", "NULL", "N/A", "#N/A"} {
		assert.True(t, IsMissing(cell), cell)
	}
	for _, cell := range []string{"0", "Nevada", " ", "NAN "} {
		assert.False(t, IsMissing(cell), cell)
	}
}

func TestBuildDate(t *testing.T) {
	tests := []struct {
		name             string
		day, month, year int
		ok               bool
	}{
		{"ordinary", 16, 7, 1945, true},
		{"leap day", 29, 2, 1960, true},
		{"non-leap feb 29", 29, 2, 1961, false},
		{"day zero", 0, 5, 1970, false},
		{"month thirteen", 1, 13, 1970, false},
		{"april 31", 31, 4, 1970, false},
		{"year zero", 1, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := BuildDate(tt.day, tt.month, tt.year)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.day, d.Day())
			assert.Equal(t, time.Month(tt.month), d.Month())
			assert.Equal(t, tt.year, d.Year())
		})
	}
}

func TestCategorizeMagnitude(t *testing.T) {
	tests := []struct {
		body     float64
		expected string
	}{
		{0, MagnitudeLow},
		{3, MagnitudeLow},
		{3.01, MagnitudeModerate},
		{5, MagnitudeModerate},
		{5.01, MagnitudeHigh},
		{6.9, MagnitudeHigh},
		{-1, MagnitudeLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategorizeMagnitude(tt.body), "body=%v", tt.body)
	}
}

func TestExplosionField(t *testing.T) {
	rec := Explosion{
		Name:              "Trinity",
		Year:              1945,
		Depth:             -0.03,
		YieldLower:        21,
		Date:              time.Date(1945, 7, 16, 0, 0, 0, 0, time.UTC),
		WeekOfYear:        29,
		MagnitudeCategory: MagnitudeLow,
	}

	assert.Equal(t, "Trinity", rec.Field(ColName))
	assert.Equal(t, "1945", rec.Field(ColYear))
	assert.Equal(t, "-0.03", rec.Field(ColDepth))
	assert.Equal(t, "21", rec.Field(ColYieldLower))
	assert.Equal(t, "1945-07-16", rec.Field(ColDate))
	assert.Equal(t, "29", rec.Field(ColWeekOfYear))
	assert.Equal(t, MagnitudeLow, rec.Field(ColMagnitudeCategory))
	assert.Equal(t, "", rec.Field("Unknown"))
}
