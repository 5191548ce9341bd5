package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard evaluates filter parameters against the loaded dataset.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Options() (domain.FilterOptions, error)
	Columns() ([]string, error)
	Evaluate(artifact string, params domain.FilterParams) ([]domain.Explosion, error)
}

// Publisher sends a filtered view to an external sink.
type Publisher interface {
	Publish(ctx context.Context, records []domain.Explosion) (int, error)
}

// Server exposes the dashboard API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	publisher  Publisher
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 routes. publisher may be nil, in which case POST /api/v1/publish
// responds 404.
func NewServer(addr string, dash Dashboard, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:      dash,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(dash))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/filters", s.handleFilters)
		r.Get("/explosions", s.handleExplosions)
		r.Get("/ranking", s.handleRanking)
		r.Get("/pivot", s.handlePivot)
		r.Get("/map", s.handleMap)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/locations", s.handleLocationCounts)
			r.Get("/yield-over-time", s.handleYieldOverTime)
			r.Get("/yearly-by-country", s.handleYearlyByCountry)
			r.Get("/country-share", s.handleCountryShare)
		})
		r.Get("/export.csv", s.handleExportCSV)
		r.Post("/publish", s.handlePublish)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
