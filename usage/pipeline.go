package usage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudtally/cloudtally/telemetry"
	"github.com/cloudtally/cloudtally/types"
)

// ProjectAPI is the provider surface the pipeline consumes. Implementations
// handle pagination and request chunking; the pipeline handles retries.
type ProjectAPI interface {
	// ListProjects returns every project name in the scope.
	ListProjects(ctx context.Context) ([]string, error)
	// BatchGetProjects returns declared configuration keyed by project name.
	// Missing entries mean no detail is available, not an error.
	BatchGetProjects(ctx context.Context, names []string) (map[string]SourceInfo, error)
	// LatestBuild returns the start time of the most recent build, or nil
	// when the project has never run.
	LatestBuild(ctx context.Context, project string) (*time.Time, error)
}

// OpenScope opens a ProjectAPI for one region.
type OpenScope func(ctx context.Context, region string) (ProjectAPI, error)

// Options configures a run.
type Options struct {
	Regions       []string
	ThresholdDays int
	Workers       int
	Retry         RetryPolicy
	// Now is captured once so every classification in the run is judged
	// against the same instant. Zero means time.Now().UTC().
	Now time.Time
}

// Runner fans classification work out across a bounded worker pool per
// region and aggregates the results.
type Runner struct {
	open   OpenScope
	opts   Options
	logger *telemetry.Logger
	tracer trace.Tracer
}

// NewRunner creates a Runner.
func NewRunner(open OpenScope, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	return &Runner{
		open:   open,
		opts:   opts,
		logger: telemetry.NewLogger("usage-runner"),
		tracer: otel.Tracer("usage-runner"),
	}
}

// Run classifies every project in every configured region. Scope and
// resource failures become ReportErrors; Run itself fails only when no
// region could be listed at all.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	for _, region := range r.opts.Regions {
		scopeCtx, span := r.tracer.Start(ctx, "ScanRegion",
			trace.WithAttributes(attribute.String("region", region)))

		classifications, errs, err := r.runScope(scopeCtx, region)
		if err != nil {
			result.RegionsFailed++
			result.Errors = append(result.Errors, types.ReportError{
				Scope:   region,
				Message: err.Error(),
			})
			r.logger.Warn().Ctx(scopeCtx).Err(err).Str("region", region).Msg("region skipped")
			span.End()
			continue
		}

		result.RegionsScanned++
		result.Classifications = append(result.Classifications, classifications...)
		result.Errors = append(result.Errors, errs...)
		r.logger.Info().Ctx(scopeCtx).
			Str("region", region).
			Int("projects", len(classifications)).
			Int("errors", len(errs)).
			Msg("region scanned")
		span.End()
	}

	if result.RegionsScanned == 0 && len(r.opts.Regions) > 0 {
		return nil, fmt.Errorf("no region could be listed (%d failed)", result.RegionsFailed)
	}

	// Completion order is nondeterministic; restore determinism here.
	sort.Slice(result.Classifications, func(i, j int) bool {
		a, b := result.Classifications[i], result.Classifications[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Project < b.Project
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		a, b := result.Errors[i], result.Errors[j]
		if a.Scope != b.Scope {
			return a.Scope < b.Scope
		}
		return a.Resource < b.Resource
	})

	return result, nil
}

// runScope lists and classifies one region. A returned error means the scope
// produced nothing; per-project failures come back as ReportErrors instead.
func (r *Runner) runScope(ctx context.Context, region string) ([]Classification, []types.ReportError, error) {
	api, err := r.open(ctx, region)
	if err != nil {
		return nil, nil, fmt.Errorf("open region %s: %w", region, err)
	}

	names, err := Call(ctx, r.opts.Retry, func() ([]string, error) {
		return api.ListProjects(ctx)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list projects: %w", err)
	}
	names = dedupe(names)
	if len(names) == 0 {
		r.logger.Info().Ctx(ctx).Str("region", region).Msg("no projects found")
		return nil, nil, nil
	}

	details, err := Call(ctx, r.opts.Retry, func() (map[string]SourceInfo, error) {
		return api.BatchGetProjects(ctx, names)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get project details: %w", err)
	}

	return r.classifyAll(ctx, api, region, names, details)
}

// classifyAll runs one classification task per project across the worker
// pool and blocks until every task has finished.
func (r *Runner) classifyAll(
	ctx context.Context,
	api ProjectAPI,
	region string,
	names []string,
	details map[string]SourceInfo,
) ([]Classification, []types.ReportError, error) {
	var (
		mu              sync.Mutex
		classifications []Classification
		errs            []types.ReportError
		wg              sync.WaitGroup
	)

	jobs := make(chan string)
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				c, err := r.classifyProject(ctx, api, region, name, details[name])
				mu.Lock()
				if err != nil {
					errs = append(errs, types.ReportError{
						Scope:    region,
						Resource: name,
						Message:  err.Error(),
					})
				} else {
					classifications = append(classifications, c)
				}
				mu.Unlock()
			}
		}()
	}

	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	return classifications, errs, nil
}

// classifyProject fetches one project's latest build and classifies it.
func (r *Runner) classifyProject(
	ctx context.Context,
	api ProjectAPI,
	region, name string,
	source SourceInfo,
) (Classification, error) {
	lastBuild, err := Call(ctx, r.opts.Retry, func() (*time.Time, error) {
		return api.LatestBuild(ctx, name)
	})
	if err != nil {
		return Classification{}, fmt.Errorf("latest build: %w", err)
	}

	status := Classify(source, lastBuild, r.opts.Now, r.opts.ThresholdDays)

	return Classification{
		Project:          name,
		Status:           status,
		LastBuildTime:    lastBuild,
		Region:           region,
		SourceType:       source.SourceType,
		EnvironmentImage: source.EnvironmentImage,
	}, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
