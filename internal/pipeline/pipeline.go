package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/covid-averages/internal/domain"
	"github.com/couchcryptid/covid-averages/internal/observability"
)

// Extractor streams dataset rows, in source order, to visit.
type Extractor interface {
	Extract(ctx context.Context, visit func(domain.Row)) error
}

// Selector chooses which known regions to report on.
type Selector interface {
	Select(regions domain.RegionSet) ([]string, error)
}

// Loader publishes a finished report.
type Loader interface {
	LoadReport(ctx context.Context, report domain.Report) error
}

// Pipeline orchestrates one extract, track, select, compare and report run.
type Pipeline struct {
	extractor Extractor
	selector  Selector
	loader    Loader
	out       io.Writer
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline writing its console report to out. Pass a nil
// loader to disable publishing.
func New(e Extractor, s Selector, l Loader, out io.Writer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		selector:  s,
		loader:    l,
		out:       out,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the dataset has been consumed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Run executes a single report. Fetch and parse failures are reported on the
// console and returned before anything is selected or compared.
func (p *Pipeline) Run(ctx context.Context) error {
	tracker, err := p.load(ctx)
	if err != nil {
		return err
	}

	regions, err := p.selector.Select(tracker)
	if err != nil {
		return fmt.Errorf("select regions: %w", err)
	}

	comparisons := p.compare(tracker, regions)

	if p.loader == nil || len(comparisons) == 0 {
		return nil
	}
	if err := p.loader.LoadReport(ctx, domain.NewReport(comparisons)); err != nil {
		p.logger.Error("publish report failed", "error", err, "comparisons", len(comparisons))
		return fmt.Errorf("load report: %w", err)
	}
	p.metrics.ReportsPublished.Add(float64(len(comparisons)))
	return nil
}

// load feeds every dataset row to a fresh tracker.
func (p *Pipeline) load(ctx context.Context) (*domain.Tracker, error) {
	start := time.Now()
	tracker := domain.NewTracker()
	rows := 0

	err := p.extractor.Extract(ctx, func(r domain.Row) {
		tracker.Update(r.Region, r.Cumulative)
		rows++
	})
	p.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	p.metrics.RowsConsumed.Add(float64(rows))

	if err != nil {
		if errors.Is(err, domain.ErrMalformedDataset) {
			p.metrics.ParseErrors.Inc()
			fmt.Fprintf(p.out, "Error processing csv data: %v\n", err)
		} else {
			p.metrics.FetchErrors.Inc()
			fmt.Fprintf(p.out, "Error fetching data: %v\n", err)
		}
		p.logger.Error("extract dataset failed", "error", err, "rows", rows)
		return nil, fmt.Errorf("extract dataset: %w", err)
	}

	p.metrics.RegionsTracked.Set(float64(tracker.Len()))
	p.metrics.DatasetLoaded.Set(1)
	p.ready.Store(true)
	p.logger.Info("dataset loaded", "rows", rows, "regions", tracker.Len(), "duration", time.Since(start))

	return tracker, nil
}

// compare writes one report line per selected region, in selection order.
func (p *Pipeline) compare(tracker *domain.Tracker, regions []string) []domain.Comparison {
	comparisons := make([]domain.Comparison, 0, len(regions))

	for _, region := range regions {
		window, _ := tracker.Window(region)
		c := domain.Compare(region, window)

		if c.Partial() {
			p.logger.Warn("window shorter than comparison span",
				"region", region,
				"days", c.Days,
				"rows", tracker.Observations(region),
				"want", domain.WindowSize,
			)
		}
		if c.Trend != domain.TrendUnchanged && !c.Change.OK() {
			p.metrics.PercentageErrors.Inc()
			p.logger.Warn("percentage change undefined", "region", region, "error", c.Change.Err)
			fmt.Fprintln(p.out, "An error occurred calculating the percentage")
		}

		fmt.Fprintln(p.out, c.String())
		p.metrics.Comparisons.WithLabelValues(c.Trend.String()).Inc()
		comparisons = append(comparisons, c)
	}
	return comparisons
}
