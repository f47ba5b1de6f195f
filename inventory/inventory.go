// Package inventory runs the collectors across regions and aggregates
// their report rows.
package inventory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudtally/cloudtally/providers/aws"
	"github.com/cloudtally/cloudtally/telemetry"
	"github.com/cloudtally/cloudtally/types"
)

// Opener builds the provider client bundle for one region.
type Opener func(ctx context.Context, region string) (*aws.Clients, error)

// Options configures an inventory run.
type Options struct {
	Regions []string
	// Now anchors every collector's age and cutoff math so all regions
	// report against the same instant. Zero means time.Now at Run.
	Now time.Time
}

// Output is one collector's aggregated rows and warnings across regions.
type Output struct {
	Header  []string
	Records []types.Record
	Errors  []types.ReportError
}

// Runner drives the collectors.
type Runner struct {
	open       Opener
	collectors []aws.Collector
	opts       Options
	logger     *telemetry.Logger
	tracer     trace.Tracer
}

// NewRunner creates a Runner over the given collectors.
func NewRunner(open Opener, collectors []aws.Collector, opts Options) *Runner {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	return &Runner{
		open:       open,
		collectors: collectors,
		opts:       opts,
		logger:     telemetry.NewLogger("inventory-runner"),
		tracer:     otel.Tracer("inventory-runner"),
	}
}

// Run collects every report. Regional collectors run once per region,
// global collectors once. A collector failure in one scope is recorded and
// does not stop the others; Run fails only when no region could be opened.
func (r *Runner) Run(ctx context.Context) (map[string]*Output, error) {
	outputs := make(map[string]*Output, len(r.collectors))
	for _, c := range r.collectors {
		outputs[c.Name()] = &Output{Header: c.Header()}
	}

	opened := 0
	globalDone := false

	for _, region := range r.opts.Regions {
		scopeCtx, span := r.tracer.Start(ctx, "CollectRegion",
			trace.WithAttributes(attribute.String("region", region)))

		clients, err := r.open(scopeCtx, region)
		if err != nil {
			r.logger.Warn().Ctx(scopeCtx).Err(err).Str("region", region).Msg("region unavailable")
			for _, c := range r.collectors {
				outputs[c.Name()].Errors = append(outputs[c.Name()].Errors, types.ReportError{
					Scope:   region,
					Message: fmt.Sprintf("open region: %v", err),
				})
			}
			span.End()
			continue
		}
		opened++

		for _, c := range r.collectors {
			if c.Global() && globalDone {
				continue
			}
			r.collect(scopeCtx, c, clients, outputs[c.Name()])
		}
		globalDone = true
		span.End()
	}

	if opened == 0 && len(r.opts.Regions) > 0 {
		return nil, fmt.Errorf("no region could be opened")
	}

	return outputs, nil
}

func (r *Runner) collect(ctx context.Context, c aws.Collector, clients *aws.Clients, out *Output) {
	records, warnings, err := c.Collect(ctx, clients, r.opts.Now)
	if err != nil {
		out.Errors = append(out.Errors, types.ReportError{
			Scope:   clients.Region,
			Message: err.Error(),
		})
		r.logger.Warn().Ctx(ctx).Err(err).
			Str("collector", c.Name()).
			Str("region", clients.Region).
			Msg("collector failed")
		return
	}

	out.Records = append(out.Records, records...)
	out.Errors = append(out.Errors, warnings...)
	r.logger.Info().Ctx(ctx).
		Str("collector", c.Name()).
		Str("region", clients.Region).
		Int("records", len(records)).
		Int("warnings", len(warnings)).
		Msg("collector complete")
}
