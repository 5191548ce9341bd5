package domain

import (
	"cmp"
	"math"
	"slices"
)

// RankedExplosion is one row of the average-yield ranking.
type RankedExplosion struct {
	Name              string  `json:"name"`
	AvgYield          float64 `json:"avg_yield"`
	MagnitudeCategory string  `json:"magnitude_category"`
	Country           string  `json:"country"`
}

// RankByAverageYield orders the view by average yield, highest first. Ties
// keep view order.
func RankByAverageYield(view []Explosion) []RankedExplosion {
	out := make([]RankedExplosion, len(view))
	for i, r := range view {
		out[i] = RankedExplosion{
			Name:              r.Name,
			AvgYield:          r.AvgYield(),
			MagnitudeCategory: r.MagnitudeCategory,
			Country:           r.Country,
		}
	}
	slices.SortStableFunc(out, func(a, b RankedExplosion) int {
		return cmp.Compare(b.AvgYield, a.AvgYield)
	})
	return out
}

// SortByYieldUpper returns a copy of the view ordered by upper yield bound,
// highest first, ties in view order.
func SortByYieldUpper(view []Explosion) []Explosion {
	out := slices.Clone(view)
	if out == nil {
		out = make([]Explosion, 0)
	}
	slices.SortStableFunc(out, func(a, b Explosion) int {
		return cmp.Compare(b.YieldUpper, a.YieldUpper)
	})
	return out
}

// Pivot is a dense Purpose x Location count table. Every combination of an
// observed purpose and an observed location has a cell, zero included.
type Pivot struct {
	Purposes  []string                  `json:"purposes"`
	Locations []string                  `json:"locations"`
	Counts    map[string]map[string]int `json:"counts"`
}

// PivotCounts cross-tabulates the view by purpose and location. Both axes are
// sorted ascending.
func PivotCounts(view []Explosion) Pivot {
	purposes := distinctSorted(view, func(e Explosion) string { return e.Purpose })
	locations := distinctSorted(view, func(e Explosion) string { return e.Location })

	counts := make(map[string]map[string]int, len(purposes))
	for _, p := range purposes {
		row := make(map[string]int, len(locations))
		for _, l := range locations {
			row[l] = 0
		}
		counts[p] = row
	}
	for _, r := range view {
		counts[r.Purpose][r.Location]++
	}
	return Pivot{Purposes: purposes, Locations: locations, Counts: counts}
}

// Cell returns the count for a purpose and location, zero when absent.
func (p Pivot) Cell(purpose, location string) int {
	return p.Counts[purpose][location]
}

// RowTotals sums each purpose across locations.
func (p Pivot) RowTotals() map[string]int {
	out := make(map[string]int, len(p.Purposes))
	for _, purpose := range p.Purposes {
		for _, n := range p.Counts[purpose] {
			out[purpose] += n
		}
	}
	return out
}

// ColumnTotals sums each location across purposes.
func (p Pivot) ColumnTotals() map[string]int {
	out := make(map[string]int, len(p.Locations))
	for _, row := range p.Counts {
		for location, n := range row {
			out[location] += n
		}
	}
	return out
}

// Total is the number of records counted.
func (p Pivot) Total() int {
	total := 0
	for _, n := range p.RowTotals() {
		total += n
	}
	return total
}

// CategoryCount is a group-by-count result.
type CategoryCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// CategoryShare is a count with its percentage of the whole view.
type CategoryShare struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// CountByLocation counts records per deployment location, most frequent
// first, ties in first-seen order.
func CountByLocation(view []Explosion) []CategoryCount {
	return countBy(view, func(e Explosion) string { return e.Location })
}

// CountByCountry counts records per source country with each country's share
// of the view, most frequent first.
func CountByCountry(view []Explosion) []CategoryShare {
	counts := countBy(view, func(e Explosion) string { return e.Country })
	out := make([]CategoryShare, len(counts))
	for i, c := range counts {
		out[i] = CategoryShare{
			Key:     c.Key,
			Count:   c.Count,
			Percent: float64(c.Count) / float64(len(view)) * 100,
		}
	}
	return out
}

// YieldPoint is one scatter point: the upper yield bound of a detonation in a
// given year.
type YieldPoint struct {
	Year       int     `json:"year"`
	YieldUpper float64 `json:"yield_upper"`
}

// LocationSeries groups yield points by deployment location.
type LocationSeries struct {
	Location string       `json:"location"`
	Points   []YieldPoint `json:"points"`
}

// YieldSeriesByLocation groups (Year, YieldUpper) points per location.
// Locations are sorted; points keep view order.
func YieldSeriesByLocation(view []Explosion) []LocationSeries {
	groups := make(map[string][]YieldPoint)
	for _, r := range view {
		groups[r.Location] = append(groups[r.Location], YieldPoint{Year: r.Year, YieldUpper: r.YieldUpper})
	}
	out := make([]LocationSeries, 0, len(groups))
	for _, l := range sortedKeys(groups) {
		out = append(out, LocationSeries{Location: l, Points: groups[l]})
	}
	return out
}

// YearCount is the number of detonations in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CountrySeries is a per-country yearly count series.
type CountrySeries struct {
	Country string      `json:"country"`
	Points  []YearCount `json:"points"`
}

// YearlyCountsByCountry counts detonations per (country, year). Countries are
// sorted; each series is ascending by year and only holds years with at
// least one detonation.
func YearlyCountsByCountry(view []Explosion) []CountrySeries {
	groups := make(map[string]map[int]int)
	for _, r := range view {
		if groups[r.Country] == nil {
			groups[r.Country] = make(map[int]int)
		}
		groups[r.Country][r.Year]++
	}
	out := make([]CountrySeries, 0, len(groups))
	for _, country := range sortedKeys(groups) {
		years := groups[country]
		points := make([]YearCount, 0, len(years))
		for _, y := range sortedKeys(years) {
			points = append(points, YearCount{Year: y, Count: years[y]})
		}
		out = append(out, CountrySeries{Country: country, Points: points})
	}
	return out
}

// MapMarker is one detonation placed on the map. Intensity is the average
// yield scaled to [0, 1] across the view.
type MapMarker struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Type      string  `json:"type"`
	Country   string  `json:"country"`
	Location  string  `json:"location"`
	AvgYield  float64 `json:"avg_yield"`
	Intensity float64 `json:"intensity"`
}

// MapMarkers builds one marker per record. When every record has the same
// average yield, all intensities are 0.5.
func MapMarkers(view []Explosion) []MapMarker {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range view {
		lo = math.Min(lo, r.AvgYield())
		hi = math.Max(hi, r.AvgYield())
	}

	out := make([]MapMarker, len(view))
	for i, r := range view {
		avg := r.AvgYield()
		intensity := 0.5
		if hi > lo {
			intensity = (avg - lo) / (hi - lo)
		}
		out[i] = MapMarker{
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Type:      r.Type,
			Country:   r.Country,
			Location:  r.Location,
			AvgYield:  avg,
			Intensity: intensity,
		}
	}
	return out
}

func countBy(view []Explosion, key func(Explosion) string) []CategoryCount {
	index := make(map[string]int)
	out := make([]CategoryCount, 0)
	for _, r := range view {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, CategoryCount{Key: k})
		}
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b CategoryCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

func distinctSorted(view []Explosion, key func(Explosion) string) []string {
	seen := make(map[string]struct{})
	for _, r := range view {
		seen[key(r)] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
