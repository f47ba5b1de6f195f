// Package usage classifies build projects by how recently they have run.
package usage

import (
	"time"

	"github.com/cloudtally/cloudtally/types"
)

// Status is the usage classification of a single project.
type Status string

const (
	// StatusUsed means the project ran a build within the recency threshold.
	StatusUsed Status = "USED"
	// StatusUnused means the project has configuration or old builds, but
	// nothing within the threshold.
	StatusUnused Status = "UNUSED"
	// StatusEmpty means the project has no build history and no declared
	// source or environment.
	StatusEmpty Status = "EMPTY"
)

// SourceInfo is a project's declared source and build environment.
type SourceInfo struct {
	SourceType       string `json:"source_type"`
	EnvironmentImage string `json:"environment_image"`
}

// Declared reports whether the project has a real source and a build image.
// A project created through the console but never configured has neither.
func (s SourceInfo) Declared() bool {
	return s.SourceType != "" && s.SourceType != "NO_SOURCE" && s.EnvironmentImage != ""
}

// Classification is one classified project, ready for tabular output.
type Classification struct {
	Project          string     `json:"project_name"`
	Status           Status     `json:"status"`
	LastBuildTime    *time.Time `json:"last_build_time,omitempty"`
	Region           string     `json:"region"`
	SourceType       string     `json:"source_type"`
	EnvironmentImage string     `json:"environment_image"`
}

// Header returns the CSV column names.
func (c Classification) Header() []string {
	return []string{"ProjectName", "Status", "LastBuildTime", "Region", "SourceType", "EnvironmentImage"}
}

// Row returns the CSV values for this classification.
func (c Classification) Row() []string {
	last := "N/A"
	if c.LastBuildTime != nil {
		last = c.LastBuildTime.UTC().Format(time.RFC3339)
	}
	return []string{c.Project, string(c.Status), last, c.Region, c.SourceType, c.EnvironmentImage}
}

// Result is the outcome of a full run across all regions.
type Result struct {
	Classifications []Classification
	Errors          []types.ReportError
	RegionsScanned  int
	RegionsFailed   int
}

// CountByStatus tallies classifications per status.
func (r *Result) CountByStatus() map[Status]int {
	counts := make(map[Status]int)
	for _, c := range r.Classifications {
		counts[c.Status]++
	}
	return counts
}
