package domain

import (
	"strconv"
	"time"
)

// Canonical column names after renaming. The spelling follows the source
// dataset.
const (
	ColName             = "Name"
	ColSource           = "Source"
	ColLatitude         = "Latitude"
	ColLongitude        = "Longitude"
	ColDepth            = "Depth"
	ColMagnitudeBody    = "Magnitude_Body"
	ColMagnitudeSurface = "Magnitude_Surface"
	ColYieldLower       = "Yeild_Lower"
	ColYieldUpper       = "Yeild_Upper"
	ColPurpose          = "Purpose"
	ColType             = "Type"
	ColDay              = "Day"
	ColMonth            = "Month"
	ColYear             = "Year"
	ColLocation         = "WEAPON DEPLOYMENT LOCATION"
	ColCountry          = "WEAPON SOURCE COUNTRY"

	// Derived columns appended to every dataset.
	ColMagnitudeCategory = "Magnitude_Category"
	ColDate              = "Date"
	ColWeekOfYear        = "Week_of_Year"
)

// DateLayout is the text form of Explosion.Date in exports.
const DateLayout = "2006-01-02"

// Magnitude categories derived from body wave magnitude.
const (
	MagnitudeHigh     = "High"
	MagnitudeModerate = "Moderate"
	MagnitudeLow      = "Low"
)

// Explosion is one cleaned row of the canonical dataset. Values are treated as
// immutable once the dataset is built; Extra is shared between copies.
type Explosion struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`

	Day        int       `json:"day"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Date       time.Time `json:"date"`
	WeekOfYear int       `json:"week_of_year"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Depth     float64 `json:"depth"` // negative above ground, positive below

	Location string `json:"location"`
	Country  string `json:"country"`
	Purpose  string `json:"purpose"`
	Type     string `json:"type"`

	MagnitudeBody     float64 `json:"magnitude_body"`
	MagnitudeSurface  float64 `json:"magnitude_surface"`
	MagnitudeCategory string  `json:"magnitude_category"`
	YieldLower        float64 `json:"yield_lower"` // kilotons
	YieldUpper        float64 `json:"yield_upper"` // kilotons

	// Extra holds source columns that have no canonical field, keyed by
	// column name.
	Extra map[string]string `json:"extra,omitempty"`
}

// AvgYield is the midpoint of the yield estimate in kilotons.
func (e Explosion) AvgYield() float64 {
	return (e.YieldLower + e.YieldUpper) / 2
}

// Field returns the text value of a canonical or retained column. Unknown
// columns return "".
func (e Explosion) Field(column string) string {
	switch column {
	case ColName:
		return e.Name
	case ColSource:
		return e.Source
	case ColLatitude:
		return formatFloat(e.Latitude)
	case ColLongitude:
		return formatFloat(e.Longitude)
	case ColDepth:
		return formatFloat(e.Depth)
	case ColMagnitudeBody:
		return formatFloat(e.MagnitudeBody)
	case ColMagnitudeSurface:
		return formatFloat(e.MagnitudeSurface)
	case ColYieldLower:
		return formatFloat(e.YieldLower)
	case ColYieldUpper:
		return formatFloat(e.YieldUpper)
	case ColPurpose:
		return e.Purpose
	case ColType:
		return e.Type
	case ColDay:
		return strconv.Itoa(e.Day)
	case ColMonth:
		return strconv.Itoa(e.Month)
	case ColYear:
		return strconv.Itoa(e.Year)
	case ColLocation:
		return e.Location
	case ColCountry:
		return e.Country
	case ColMagnitudeCategory:
		return e.MagnitudeCategory
	case ColDate:
		if e.Date.IsZero() {
			return ""
		}
		return e.Date.Format(DateLayout)
	case ColWeekOfYear:
		return strconv.Itoa(e.WeekOfYear)
	default:
		return e.Extra[column]
	}
}

// Dataset is the canonical, read-only result of a load.
type Dataset struct {
	Records []Explosion
	// Columns lists the renamed source columns in source order followed by
	// the derived columns the source did not already carry.
	Columns     []string
	LoadedAt    time.Time
	RowsRead    int
	RowsDropped int
}

// RawTable is an untyped table as read from the source file. Rows may be
// shorter than Header when trailing cells are empty.
type RawTable struct {
	Header []string
	Rows   [][]string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
