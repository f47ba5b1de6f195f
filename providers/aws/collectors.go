package aws

import (
	"context"
	"time"

	"github.com/cloudtally/cloudtally/cost"
	"github.com/cloudtally/cloudtally/types"
)

// Collector produces the rows of one inventory report.
type Collector interface {
	Name() string
	// Global collectors (IAM, S3) see the whole account and run once
	// instead of once per region.
	Global() bool
	// Header returns the column names of this collector's record type,
	// so an empty report still gets a header row.
	Header() []string
	// Collect returns the report rows plus warnings from best-effort
	// secondary lookups. The error return means the whole report failed
	// for this scope. All age and cutoff math uses the run-level now so
	// every region reports against the same instant.
	Collect(ctx context.Context, c *Clients, now time.Time) ([]types.Record, []types.ReportError, error)
}

// CollectorRegistry holds all inventory collectors.
type CollectorRegistry struct {
	collectors []Collector
}

// NewCollectorRegistry creates a registry with every collector.
func NewCollectorRegistry(estimator *cost.Estimator) *CollectorRegistry {
	return &CollectorRegistry{
		collectors: []Collector{
			&EC2Collector{},
			&RDSCollector{},
			&S3Collector{},
			&S3SecurityCollector{},
			&IAMCollector{},
			&IAMCatalogCollector{},
			&ECRCollector{},
			&AuditCollector{Estimator: estimator},
		},
	}
}

// Collectors returns the registered collectors, filtered by name when the
// filter is non-empty.
func (r *CollectorRegistry) Collectors(only []string) []Collector {
	if len(only) == 0 {
		return r.collectors
	}

	wanted := make(map[string]struct{}, len(only))
	for _, name := range only {
		wanted[name] = struct{}{}
	}

	var out []Collector
	for _, c := range r.collectors {
		if _, ok := wanted[c.Name()]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Names returns every registered collector name.
func (r *CollectorRegistry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for _, c := range r.collectors {
		names = append(names, c.Name())
	}
	return names
}
