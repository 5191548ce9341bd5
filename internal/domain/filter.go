package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DepthMode selects records by detonation depth.
type DepthMode int

const (
	DepthAll DepthMode = iota
	DepthAboveGround
	DepthUnderground
)

// DepthModes lists every mode in display order.
var DepthModes = []DepthMode{DepthAboveGround, DepthUnderground, DepthAll}

func (m DepthMode) String() string {
	switch m {
	case DepthAboveGround:
		return "Above Ground"
	case DepthUnderground:
		return "Underground"
	case DepthAll:
		return "All"
	default:
		return fmt.Sprintf("DepthMode(%d)", int(m))
	}
}

// ParseDepthMode accepts display labels ("Above Ground") and slugs
// ("above-ground"), case-insensitively. An empty string is DepthAll.
func ParseDepthMode(s string) (DepthMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	switch key {
	case "", "all":
		return DepthAll, nil
	case "above ground", "aboveground", "above":
		return DepthAboveGround, nil
	case "underground", "under ground", "below":
		return DepthUnderground, nil
	default:
		return DepthAll, fmt.Errorf("unknown depth mode %q", s)
	}
}

func (m DepthMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *DepthMode) UnmarshalText(b []byte) error {
	v, err := ParseDepthMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// matches applies the depth predicate. Zero depth matches neither directional
// mode.
func (m DepthMode) matches(depth float64) bool {
	switch m {
	case DepthAboveGround:
		return depth < 0
	case DepthUnderground:
		return depth > 0
	default:
		return true
	}
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies in [Min, Max].
func (r IntRange) Contains(v float64) bool {
	return float64(r.Min) <= v && v <= float64(r.Max)
}

// FilterParams is the full set of user-selected filters for one evaluation.
type FilterParams struct {
	Locations  []string  `json:"locations" validate:"dive,required"`
	YearRange  IntRange  `json:"year_range"`
	YieldRange IntRange  `json:"yield_range"`
	Depth      DepthMode `json:"depth" validate:"oneof=0 1 2"`
}

var validate = validator.New()

// Validate rejects inverted ranges, blank location names and unknown depth
// modes. Filter itself accepts any params; validation belongs to the input
// boundary.
func (p FilterParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid filter params: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid filter params: %w", err)
	}
	return nil
}

// Filter returns the records satisfying all four predicates, in dataset order.
// The result is a new slice; an empty location set yields an empty view.
func Filter(records []Explosion, p FilterParams) []Explosion {
	locations := make(map[string]struct{}, len(p.Locations))
	for _, l := range p.Locations {
		locations[l] = struct{}{}
	}

	out := make([]Explosion, 0)
	for _, r := range records {
		if Matches(r, p, locations) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record passes every predicate. locations
// is the set form of p.Locations.
func Matches(r Explosion, p FilterParams, locations map[string]struct{}) bool {
	if _, ok := locations[r.Location]; !ok {
		return false
	}
	if r.Year < p.YearRange.Min || r.Year > p.YearRange.Max {
		return false
	}
	if !p.YieldRange.Contains(r.YieldLower) {
		return false
	}
	return p.Depth.matches(r.Depth)
}

// DefaultLocations are the historically notable sites preselected in the
// location filter.
var DefaultLocations = []string{"Hiroshima", "In Ekker", "Pokhran", "Monte Bello", "Emu"}

// FilterOptions describes the choices offered to the user for a dataset.
type FilterOptions struct {
	Locations   []string     `json:"locations"`
	YearBounds  IntRange     `json:"year_bounds"`
	YieldBounds IntRange     `json:"yield_bounds"`
	DepthModes  []DepthMode  `json:"depth_modes"`
	Defaults    FilterParams `json:"defaults"`
}

// Options derives the location choices (first-seen order) and slider bounds
// from the dataset. Yield bounds truncate the lower-yield extremes toward zero.
func Options(ds *Dataset) FilterOptions {
	opts := FilterOptions{
		Locations:  UniqueLocations(ds.Records),
		DepthModes: DepthModes,
	}
	if len(ds.Records) > 0 {
		minYear, maxYear := math.MaxInt, math.MinInt
		minYield, maxYield := math.Inf(1), math.Inf(-1)
		for _, r := range ds.Records {
			minYear = min(minYear, r.Year)
			maxYear = max(maxYear, r.Year)
			minYield = math.Min(minYield, r.YieldLower)
			maxYield = math.Max(maxYield, r.YieldLower)
		}
		opts.YearBounds = IntRange{Min: minYear, Max: maxYear}
		opts.YieldBounds = IntRange{Min: int(minYield), Max: int(maxYield)}
	}

	available := make(map[string]struct{}, len(opts.Locations))
	for _, l := range opts.Locations {
		available[l] = struct{}{}
	}
	defaults := make([]string, 0, len(DefaultLocations))
	for _, l := range DefaultLocations {
		if _, ok := available[l]; ok {
			defaults = append(defaults, l)
		}
	}
	opts.Defaults = FilterParams{
		Locations:  defaults,
		YearRange:  opts.YearBounds,
		YieldRange: opts.YieldBounds,
		Depth:      DepthAll,
	}
	return opts
}

// UniqueLocations lists distinct deployment locations in first-seen order.
func UniqueLocations(records []Explosion) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		out = append(out, r.Location)
	}
	return out
}
