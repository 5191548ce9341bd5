package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
	"github.com/couchcryptid/nuclear-dashboard/internal/observability"
)

// TableReader reads the raw dataset table from its source.
type TableReader interface {
	ReadTable(ctx context.Context) (domain.RawTable, error)
}

// Pipeline loads the canonical dataset once and evaluates filter parameters
// against it. The dataset is read-only after Load; each evaluation allocates
// a fresh view, so concurrent evaluations are safe.
type Pipeline struct {
	reader  TableReader
	logger  *slog.Logger
	metrics *observability.Metrics
	dataset atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline reading from r.
func New(r TableReader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		reader:  r,
		logger:  logger,
		metrics: metrics,
	}
}

// Load reads and cleans the source. On failure nothing is stored and the
// error is a *domain.DataSourceError or *domain.DataIntegrityError.
func (p *Pipeline) Load(ctx context.Context) (*domain.Dataset, error) {
	start := time.Now()

	table, err := p.reader.ReadTable(ctx)
	if err != nil {
		p.recordLoadError(err)
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	ds, err := domain.CleanTable(table)
	if err != nil {
		p.recordLoadError(err)
		return nil, fmt.Errorf("clean dataset: %w", err)
	}

	p.dataset.Store(ds)
	p.metrics.RowsRead.Add(float64(ds.RowsRead))
	p.metrics.RowsDropped.Add(float64(ds.RowsDropped))
	p.metrics.DatasetRecords.Set(float64(len(ds.Records)))
	p.metrics.DatasetLoaded.Set(1)
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("dataset loaded",
		"rows_read", ds.RowsRead,
		"rows_dropped", ds.RowsDropped,
		"records", len(ds.Records),
		"duration", time.Since(start),
	)
	return ds, nil
}

func (p *Pipeline) recordLoadError(err error) {
	kind := "other"
	switch {
	case errors.Is(err, domain.ErrDataSource):
		kind = "source"
	case errors.Is(err, domain.ErrDataIntegrity):
		kind = "integrity"
	}
	p.metrics.LoadErrors.WithLabelValues(kind).Inc()
	p.logger.Error("dataset load failed", "kind", kind, "error", err)
}

// Dataset returns the canonical dataset, or domain.ErrNotLoaded.
func (p *Pipeline) Dataset() (*domain.Dataset, error) {
	ds := p.dataset.Load()
	if ds == nil {
		return nil, domain.ErrNotLoaded
	}
	return ds, nil
}

// CheckReadiness returns nil once the dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return domain.ErrNotLoaded
	}
	return nil
}

// Options returns the filter choices and defaults for the loaded dataset.
func (p *Pipeline) Options() (domain.FilterOptions, error) {
	ds, err := p.Dataset()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return domain.Options(ds), nil
}

// Columns returns the canonical column order used for exports.
func (p *Pipeline) Columns() ([]string, error) {
	ds, err := p.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Columns, nil
}

// Evaluate filters the canonical dataset. artifact names the consumer (for
// example "ranking") and only labels metrics. An empty view is not an error.
func (p *Pipeline) Evaluate(artifact string, params domain.FilterParams) ([]domain.Explosion, error) {
	ds, err := p.Dataset()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	view := domain.Filter(ds.Records, params)

	p.metrics.Evaluations.WithLabelValues(artifact).Inc()
	p.metrics.EvaluationDuration.WithLabelValues(artifact).Observe(time.Since(start).Seconds())
	p.metrics.ViewSize.Observe(float64(len(view)))
	if len(view) == 0 {
		p.metrics.EmptyViews.Inc()
	}

	p.logger.Debug("filter evaluated",
		"artifact", artifact,
		"locations", len(params.Locations),
		"year_range", params.YearRange,
		"yield_range", params.YieldRange,
		"depth", params.Depth.String(),
		"records", len(view),
	)
	return view, nil
}
