package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
)

// Query parameter names accepted by the view endpoints.
const (
	paramLocation = "location"
	paramYearMin  = "year_min"
	paramYearMax  = "year_max"
	paramYieldMin = "yield_min"
	paramYieldMax = "yield_max"
	paramDepth    = "depth"
)

// errBadRequest marks errors caused by invalid client input.
var errBadRequest = errors.New("bad request")

// parseFilterParams overlays query parameters on defaults. An absent
// location parameter keeps the default locations; a present one replaces
// them, and blank values are dropped, so "location=" selects nothing.
func parseFilterParams(q url.Values, defaults domain.FilterParams) (domain.FilterParams, error) {
	p := defaults
	p.Locations = append([]string(nil), defaults.Locations...)

	if values, ok := q[paramLocation]; ok {
		p.Locations = make([]string, 0, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				p.Locations = append(p.Locations, v)
			}
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{paramYearMin, &p.YearRange.Min},
		{paramYearMax, &p.YearRange.Max},
		{paramYieldMin, &p.YieldRange.Min},
		{paramYieldMax, &p.YieldRange.Max},
	}
	for _, f := range ints {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.FilterParams{}, fmt.Errorf("%w: %s must be an integer, got %q", errBadRequest, f.name, raw)
		}
		*f.dst = v
	}

	if raw := q.Get(paramDepth); raw != "" {
		mode, err := domain.ParseDepthMode(raw)
		if err != nil {
			return domain.FilterParams{}, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		p.Depth = mode
	}

	if err := p.Validate(); err != nil {
		return domain.FilterParams{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return p, nil
}
