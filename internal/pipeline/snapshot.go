package pipeline

import "github.com/couchcryptid/nuclear-dashboard/internal/domain"

// Snapshot bundles every artifact derived from one filtered view.
type Snapshot struct {
	Params          domain.FilterParams      `json:"params"`
	Count           int                      `json:"count"`
	Empty           bool                     `json:"empty"`
	Ranking         []domain.RankedExplosion `json:"ranking"`
	Pivot           domain.Pivot             `json:"pivot"`
	LocationCounts  []domain.CategoryCount   `json:"location_counts"`
	YieldSeries     []domain.LocationSeries  `json:"yield_series"`
	YearlyByCountry []domain.CountrySeries   `json:"yearly_by_country"`
	CountryShare    []domain.CategoryShare   `json:"country_share"`
	Markers         []domain.MapMarker       `json:"markers"`
}

// BuildSnapshot derives all artifacts from a view. Each aggregation reads the
// view independently.
func BuildSnapshot(params domain.FilterParams, view []domain.Explosion) Snapshot {
	return Snapshot{
		Params:          params,
		Count:           len(view),
		Empty:           len(view) == 0,
		Ranking:         domain.RankByAverageYield(view),
		Pivot:           domain.PivotCounts(view),
		LocationCounts:  domain.CountByLocation(view),
		YieldSeries:     domain.YieldSeriesByLocation(view),
		YearlyByCountry: domain.YearlyCountsByCountry(view),
		CountryShare:    domain.CountByCountry(view),
		Markers:         domain.MapMarkers(view),
	}
}

// Snapshot evaluates params and derives every artifact in one call.
func (p *Pipeline) Snapshot(params domain.FilterParams) (Snapshot, error) {
	view, err := p.Evaluate("snapshot", params)
	if err != nil {
		return Snapshot{}, err
	}
	return BuildSnapshot(params, view), nil
}
