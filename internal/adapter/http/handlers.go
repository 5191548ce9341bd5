package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/export"
	"github.com/go-chi/render"
)

// listResponse wraps an artifact derived from one filtered view. Count is the
// number of records in the view; Items may be grouped and hold fewer entries.
type listResponse[T any] struct {
	Params domain.FilterParams `json:"params"`
	Count  int                 `json:"count"`
	Empty  bool                `json:"empty"`
	Items  []T                 `json:"items"`
}

func newList[T any](params domain.FilterParams, view []domain.Explosion, items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Params: params,
		Count:  len(view),
		Empty:  len(view) == 0,
		Items:  items,
	}
}

type pivotResponse struct {
	Params       domain.FilterParams `json:"params"`
	Count        int                 `json:"count"`
	Empty        bool                `json:"empty"`
	Pivot        domain.Pivot        `json:"pivot"`
	RowTotals    map[string]int      `json:"row_totals"`
	ColumnTotals map[string]int      `json:"column_totals"`
	Total        int                 `json:"total"`
}

type publishResponse struct {
	Params    domain.FilterParams `json:"params"`
	Published int                 `json:"published"`
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dash.Options()
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

func (s *Server) handleExplosions(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "explosions")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, view))
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "ranking")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.RankByAverageYield(view)))
}

func (s *Server) handlePivot(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "pivot")
	if !ok {
		return
	}
	pivot := domain.PivotCounts(view)
	render.JSON(w, r, pivotResponse{
		Params:       params,
		Count:        len(view),
		Empty:        len(view) == 0,
		Pivot:        pivot,
		RowTotals:    pivot.RowTotals(),
		ColumnTotals: pivot.ColumnTotals(),
		Total:        pivot.Total(),
	})
}

func (s *Server) handleLocationCounts(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "locations")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.CountByLocation(view)))
}

func (s *Server) handleYieldOverTime(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "yield_over_time")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.YieldSeriesByLocation(view)))
}

func (s *Server) handleYearlyByCountry(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "yearly_by_country")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.YearlyCountsByCountry(view)))
}

func (s *Server) handleCountryShare(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "country_share")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.CountByCountry(view)))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	params, view, ok := s.evaluate(w, r, "map")
	if !ok {
		return
	}
	render.JSON(w, r, newList(params, view, domain.MapMarkers(view)))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	columns, err := s.dash.Columns()
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	_, view, ok := s.evaluate(w, r, "export")
	if !ok {
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if err := export.Write(w, columns, view); err != nil {
		// Headers are already sent; the client sees a truncated body.
		s.logger.Error("csv export failed", "records", len(view), "error", err)
		return
	}
	s.metrics.Exports.WithLabelValues("csv").Inc()
	s.metrics.ExportedRows.WithLabelValues("csv").Add(float64(len(view)))
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "kafka export is not enabled"})
		return
	}
	params, view, ok := s.evaluate(w, r, "publish")
	if !ok {
		return
	}

	n, err := s.publisher.Publish(r.Context(), view)
	if err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Error("publish failed", "records", len(view), "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}
	s.metrics.Exports.WithLabelValues("kafka").Inc()
	s.metrics.ExportedRows.WithLabelValues("kafka").Add(float64(n))
	render.JSON(w, r, publishResponse{Params: params, Published: n})
}

// evaluate parses the request filters and evaluates them. On failure it has
// already written the error response and returns ok == false.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, artifact string) (domain.FilterParams, []domain.Explosion, bool) {
	opts, err := s.dash.Options()
	if err != nil {
		s.renderError(w, r, err)
		return domain.FilterParams{}, nil, false
	}
	params, err := parseFilterParams(r.URL.Query(), opts.Defaults)
	if err != nil {
		s.renderError(w, r, err)
		return domain.FilterParams{}, nil, false
	}
	view, err := s.dash.Evaluate(artifact, params)
	if err != nil {
		s.renderError(w, r, err)
		return domain.FilterParams{}, nil, false
	}
	return params, view, true
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
