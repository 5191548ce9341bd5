package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/nuclear-dashboard/internal/adapter/http"
	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/export"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listBody[T any] struct {
	Params struct {
		Locations []string `json:"locations"`
		Depth     string   `json:"depth"`
	} `json:"params"`
	Count int    `json:"count"`
	Empty bool   `json:"empty"`
	Items []T    `json:"items"`
	Error string `json:"error"`
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func names(records []domain.Explosion) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestFilters(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/v1/filters")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body struct {
		Locations   []string        `json:"locations"`
		YearBounds  domain.IntRange `json:"year_bounds"`
		YieldBounds domain.IntRange `json:"yield_bounds"`
		DepthModes  []string        `json:"depth_modes"`
		Defaults    struct {
			Locations []string `json:"locations"`
		} `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []string{"Hiroshima", "Pokhran", "Monte Bello", "Nevada", "In Ekker"}, body.Locations)
	assert.Equal(t, domain.IntRange{Min: 1945, Max: 1974}, body.YearBounds)
	assert.Equal(t, domain.IntRange{Min: 3, Max: 104}, body.YieldBounds)
	assert.Equal(t, []string{"Above Ground", "Underground", "All"}, body.DepthModes)
	assert.Equal(t, []string{"Hiroshima", "In Ekker", "Pokhran", "Monte Bello"}, body.Defaults.Locations)
}

func TestExplosions(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"defaults", "/api/v1/explosions", []string{"Little Boy", "Smiling Buddha", "Hurricane", "Agate"}},
		{"above ground excludes zero depth", "/api/v1/explosions?depth=above-ground", []string{"Little Boy", "Hurricane"}},
		{"underground excludes zero depth", "/api/v1/explosions?depth=Underground", []string{"Smiling Buddha"}},
		{"explicit location", "/api/v1/explosions?location=Nevada", []string{"Sedan"}},
		{"repeated location", "/api/v1/explosions?location=Nevada&location=Hiroshima", []string{"Little Boy", "Sedan"}},
		{"year range", "/api/v1/explosions?year_min=1950&year_max=1970", []string{"Hurricane", "Agate"}},
		{"yield range uses lower bound", "/api/v1/explosions?yield_min=8&yield_max=15", []string{"Little Boy", "Smiling Buddha"}},
		{"empty location set", "/api/v1/explosions?location=", []string{}},
	}

	srv := newTestServer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decode[listBody[domain.Explosion]](t, rec)
			assert.Equal(t, tt.want, names(body.Items))
			assert.Equal(t, len(tt.want), body.Count)
			assert.Equal(t, len(tt.want) == 0, body.Empty)
		})
	}
}

func TestExplosions_InvalidParams(t *testing.T) {
	targets := []string{
		"/api/v1/explosions?year_min=abc",
		"/api/v1/explosions?yield_max=1.5",
		"/api/v1/explosions?year_min=1970&year_max=1950",
		"/api/v1/explosions?depth=sideways",
	}

	srv := newTestServer(nil)
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := get(t, srv, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[listBody[domain.Explosion]](t, rec)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestNotLoadedReturns503(t *testing.T) {
	srv := newTestServer(domain.ErrNotLoaded)
	for _, target := range []string{"/api/v1/filters", "/api/v1/ranking", "/api/v1/export.csv"} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestRanking(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/v1/ranking")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[listBody[domain.RankedExplosion]](t, rec)
	require.Len(t, body.Items, 4)
	got := make([]string, len(body.Items))
	for i, r := range body.Items {
		got[i] = r.Name
	}
	assert.Equal(t, []string{"Hurricane", "Little Boy", "Smiling Buddha", "Agate"}, got)
	assert.InDelta(t, 6.5, body.Items[3].AvgYield, 1e-9)
}

func TestPivot(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/v1/pivot")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Empty bool         `json:"empty"`
		Pivot domain.Pivot `json:"pivot"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Empty)
	assert.Equal(t, 4, body.Total)
	assert.Equal(t, []string{"Hiroshima", "In Ekker", "Monte Bello", "Pokhran"}, body.Pivot.Locations)
	assert.Equal(t, 2, body.Pivot.Cell("Weapon-Related", "Monte Bello")+body.Pivot.Cell("Weapon-Related", "In Ekker"))
	assert.Equal(t, 0, body.Pivot.Cell("Combat Detonation", "Pokhran"))
}

func TestCharts(t *testing.T) {
	srv := newTestServer(nil)

	t.Run("locations", func(t *testing.T) {
		body := decode[listBody[domain.CategoryCount]](t, get(t, srv, "/api/v1/charts/locations"))
		assert.Len(t, body.Items, 4)
		assert.Equal(t, "Hiroshima", body.Items[0].Key)
	})

	t.Run("yield over time", func(t *testing.T) {
		body := decode[listBody[domain.LocationSeries]](t, get(t, srv, "/api/v1/charts/yield-over-time"))
		require.Len(t, body.Items, 4)
		assert.Equal(t, "Hiroshima", body.Items[0].Location)
		assert.Equal(t, []domain.YieldPoint{{Year: 1945, YieldUpper: 15}}, body.Items[0].Points)
	})

	t.Run("yearly by country", func(t *testing.T) {
		body := decode[listBody[domain.CountrySeries]](t, get(t, srv, "/api/v1/charts/yearly-by-country"))
		require.Len(t, body.Items, 4)
		assert.Equal(t, "FRANCE", body.Items[0].Country)
	})

	t.Run("country share", func(t *testing.T) {
		body := decode[listBody[domain.CategoryShare]](t, get(t, srv, "/api/v1/charts/country-share"))
		require.Len(t, body.Items, 4)
		total := 0.0
		for _, s := range body.Items {
			total += s.Percent
		}
		assert.InDelta(t, 100, total, 1e-9)
	})

	t.Run("map", func(t *testing.T) {
		body := decode[listBody[domain.MapMarker]](t, get(t, srv, "/api/v1/map"))
		require.Len(t, body.Items, 4)
		for _, m := range body.Items {
			assert.GreaterOrEqual(t, m.Intensity, 0.0)
			assert.LessOrEqual(t, m.Intensity, 1.0)
		}
	})

	t.Run("empty view", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/charts/country-share?location=")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[listBody[domain.CategoryShare]](t, rec)
		assert.True(t, body.Empty)
		assert.NotNil(t, body.Items)
		assert.Empty(t, body.Items)
	})
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/v1/export.csv?depth=above-ground")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Filtered_Data.csv")

	table, err := export.Parse(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, fixtureColumns, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Little Boy", table.Rows[0][0])
	assert.Equal(t, "1945-06-01", table.Rows[0][6])
}

func TestExportCSV_EmptyViewIsHeaderOnly(t *testing.T) {
	srv := newTestServer(nil)
	rec := get(t, srv, "/api/v1/export.csv?location=")
	require.Equal(t, http.StatusOK, rec.Code)

	table, err := export.Parse(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	assert.Equal(t, fixtureColumns, table.Header)
	assert.Empty(t, table.Rows)
}

func TestPublish(t *testing.T) {
	dash := &stubDashboard{records: fixtureRecords(), columns: fixtureColumns}

	t.Run("disabled", func(t *testing.T) {
		srv := httpadapter.NewServer(":0", dash, nil, observability.NewMetricsForTesting(), discardLogger())
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/publish", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("publishes view", func(t *testing.T) {
		pub := &stubPublisher{}
		srv := httpadapter.NewServer(":0", dash, pub, observability.NewMetricsForTesting(), discardLogger())
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/publish?location=Nevada", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Published int `json:"published"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Published)
		assert.Equal(t, []string{"Sedan"}, names(pub.published))
	})

	t.Run("broker failure", func(t *testing.T) {
		pub := &stubPublisher{err: errors.New("broker unavailable")}
		srv := httpadapter.NewServer(":0", dash, pub, observability.NewMetricsForTesting(), discardLogger())
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/publish", nil))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("get not allowed", func(t *testing.T) {
		srv := httpadapter.NewServer(":0", dash, &stubPublisher{}, observability.NewMetricsForTesting(), discardLogger())
		rec := get(t, srv, "/api/v1/publish")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
