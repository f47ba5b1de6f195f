package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	cbtypes "github.com/aws/aws-sdk-go-v2/service/codebuild/types"

	"github.com/cloudtally/cloudtally/usage"
)

// batchGetProjectsMax is the API cap on names per BatchGetProjects call.
const batchGetProjectsMax = 100

// ProjectClient adapts CodeBuild to the usage pipeline's ProjectAPI.
type ProjectClient struct {
	client CodeBuildAPI
	region string
}

// NewProjectClient creates a ProjectClient for one region.
func NewProjectClient(client CodeBuildAPI, region string) *ProjectClient {
	return &ProjectClient{client: client, region: region}
}

// ListProjects returns every project name in the region, following the
// pagination cursor until none remains.
func (c *ProjectClient) ListProjects(ctx context.Context) ([]string, error) {
	var names []string
	var nextToken *string

	for {
		output, err := c.client.ListProjects(ctx, &codebuild.ListProjectsInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}

		names = append(names, output.Projects...)

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return names, nil
}

// BatchGetProjects fetches declared configuration for the named projects,
// chunking requests to respect the API cap. Projects the API does not
// return are simply absent from the map.
func (c *ProjectClient) BatchGetProjects(ctx context.Context, names []string) (map[string]usage.SourceInfo, error) {
	details := make(map[string]usage.SourceInfo, len(names))

	for start := 0; start < len(names); start += batchGetProjectsMax {
		end := start + batchGetProjectsMax
		if end > len(names) {
			end = len(names)
		}

		output, err := c.client.BatchGetProjects(ctx, &codebuild.BatchGetProjectsInput{
			Names: names[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("batch get projects: %w", err)
		}

		for _, p := range output.Projects {
			details[aws.ToString(p.Name)] = convertProject(p)
		}
	}

	return details, nil
}

// LatestBuild returns the start time of the project's most recent build, or
// nil when the project has never built.
func (c *ProjectClient) LatestBuild(ctx context.Context, project string) (*time.Time, error) {
	output, err := c.client.ListBuildsForProject(ctx, &codebuild.ListBuildsForProjectInput{
		ProjectName: aws.String(project),
		SortOrder:   cbtypes.SortOrderTypeDescending,
	})
	if err != nil {
		return nil, fmt.Errorf("list builds for %s: %w", project, err)
	}
	if len(output.Ids) == 0 {
		return nil, nil
	}

	builds, err := c.client.BatchGetBuilds(ctx, &codebuild.BatchGetBuildsInput{
		Ids: output.Ids[:1],
	})
	if err != nil {
		return nil, fmt.Errorf("get build %s: %w", output.Ids[0], err)
	}
	if len(builds.Builds) == 0 || builds.Builds[0].StartTime == nil {
		return nil, nil
	}

	start := builds.Builds[0].StartTime.UTC()
	return &start, nil
}

func convertProject(p cbtypes.Project) usage.SourceInfo {
	info := usage.SourceInfo{SourceType: string(cbtypes.SourceTypeNoSource)}
	if p.Source != nil {
		info.SourceType = string(p.Source.Type)
	}
	if p.Environment != nil {
		info.EnvironmentImage = aws.ToString(p.Environment.Image)
	}
	return info
}
