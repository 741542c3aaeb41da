package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/apimgr/hostscout/src/api"
	"github.com/apimgr/hostscout/src/metrics"
	"github.com/apimgr/hostscout/src/model"
)

// Remote is everything a run needs from the provider.
type Remote interface {
	Search(ctx context.Context, q api.Query) (*api.SearchResponse, error)
	Lookup
}

// Emitter receives the enriched records of a run, in final order.
type Emitter interface {
	Emit(records []model.EnrichedRecord) error
}

// Options describes one run.
type Options struct {
	Query      api.Query
	Filter     model.FilterSpec
	Sort       model.SortSpec
	NumResults int // 0 renders everything that survives filtering
	Exploits   bool
	Workers    int
}

// Report summarises a finished run.
type Report struct {
	RunID    string
	Total    int // provider-side total for the query
	Searched int // matches returned by the search call
	Filtered int // matches surviving the filter stage
	Rendered int // records handed to the emitter
	Failed   int // records with at least one failed lookup
	Duration time.Duration
}

// Runner executes the search, filter, sort, enrich and emit stages.
type Runner struct {
	Remote  Remote
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Run collects the enriched records for opts and hands them to out.
func (r *Runner) Run(ctx context.Context, opts Options, out Emitter) (*Report, error) {
	records, report, err := r.Collect(ctx, opts)
	if err != nil {
		return report, err
	}
	if err := out.Emit(records); err != nil {
		return report, err
	}
	return report, nil
}

// Collect runs every stage except output.
func (r *Runner) Collect(ctx context.Context, opts Options) (records []model.EnrichedRecord, report *Report, err error) {
	start := time.Now()
	report = &Report{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", report.RunID)

	defer func() {
		report.Duration = time.Since(start)
		r.Metrics.ObserveRun(report.Duration, err)
	}()

	if opts.Query.Text == "" {
		return nil, report, model.ErrEmptyQuery
	}

	logger.Info("search", "query", opts.Query.Compose(), "limit", opts.Query.Limit)
	resp, err := r.Remote.Search(ctx, opts.Query)
	if err != nil {
		return nil, report, fmt.Errorf("search failed: %w", err)
	}

	matches := resp.Matches
	if opts.Query.Limit > 0 && len(matches) > opts.Query.Limit {
		matches = matches[:opts.Query.Limit]
	}
	report.Total = resp.Total
	report.Searched = len(matches)
	r.Metrics.ObserveStage("searched", len(matches))

	matches, err = Filter(matches, opts.Filter)
	if err != nil {
		return nil, report, err
	}
	report.Filtered = len(matches)
	r.Metrics.ObserveStage("filtered", len(matches))

	matches, err = Sort(matches, opts.Sort)
	if err != nil {
		return nil, report, err
	}

	if opts.NumResults > 0 && len(matches) > opts.NumResults {
		matches = matches[:opts.NumResults]
	}

	enricher := &Enricher{
		Lookup:   r.Remote,
		Workers:  opts.Workers,
		Exploits: opts.Exploits,
		Logger:   logger,
		Metrics:  r.Metrics,
	}
	records, err = enricher.Enrich(ctx, matches)
	if err != nil {
		return nil, report, err
	}

	for _, rec := range records {
		if rec.Failed() {
			report.Failed++
		}
	}
	report.Rendered = len(records)
	r.Metrics.ObserveStage("rendered", len(records))

	logger.Info("run complete",
		"searched", report.Searched,
		"filtered", report.Filtered,
		"rendered", report.Rendered,
		"failed", report.Failed,
	)
	return records, report, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
