package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/codebuild"
	cbtypes "github.com/aws/aws-sdk-go-v2/service/codebuild/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCodeBuild implements CodeBuildAPI with injectable behavior.
type mockCodeBuild struct {
	listProjectsFunc         func(ctx context.Context, params *codebuild.ListProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.ListProjectsOutput, error)
	batchGetProjectsFunc     func(ctx context.Context, params *codebuild.BatchGetProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetProjectsOutput, error)
	listBuildsForProjectFunc func(ctx context.Context, params *codebuild.ListBuildsForProjectInput, optFns ...func(*codebuild.Options)) (*codebuild.ListBuildsForProjectOutput, error)
	batchGetBuildsFunc       func(ctx context.Context, params *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error)
}

func (m *mockCodeBuild) ListProjects(ctx context.Context, params *codebuild.ListProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.ListProjectsOutput, error) {
	return m.listProjectsFunc(ctx, params, optFns...)
}

func (m *mockCodeBuild) BatchGetProjects(ctx context.Context, params *codebuild.BatchGetProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetProjectsOutput, error) {
	return m.batchGetProjectsFunc(ctx, params, optFns...)
}

func (m *mockCodeBuild) ListBuildsForProject(ctx context.Context, params *codebuild.ListBuildsForProjectInput, optFns ...func(*codebuild.Options)) (*codebuild.ListBuildsForProjectOutput, error) {
	return m.listBuildsForProjectFunc(ctx, params, optFns...)
}

func (m *mockCodeBuild) BatchGetBuilds(ctx context.Context, params *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error) {
	return m.batchGetBuildsFunc(ctx, params, optFns...)
}

func TestListProjectsFollowsPagination(t *testing.T) {
	pages := map[string]*codebuild.ListProjectsOutput{
		"": {
			Projects:  []string{"a", "b"},
			NextToken: aws.String("page2"),
		},
		"page2": {
			Projects:  []string{"c"},
			NextToken: aws.String("page3"),
		},
		"page3": {
			Projects: []string{"d"},
		},
	}

	client := &mockCodeBuild{
		listProjectsFunc: func(ctx context.Context, params *codebuild.ListProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.ListProjectsOutput, error) {
			return pages[aws.ToString(params.NextToken)], nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	names, err := pc.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestListProjectsError(t *testing.T) {
	client := &mockCodeBuild{
		listProjectsFunc: func(ctx context.Context, params *codebuild.ListProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.ListProjectsOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	_, err := pc.ListProjects(context.Background())
	assert.Error(t, err)
}

func TestBatchGetProjectsChunksRequests(t *testing.T) {
	names := make([]string, 250)
	for i := range names {
		names[i] = fmt.Sprintf("project-%03d", i)
	}

	var chunkSizes []int
	client := &mockCodeBuild{
		batchGetProjectsFunc: func(ctx context.Context, params *codebuild.BatchGetProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetProjectsOutput, error) {
			chunkSizes = append(chunkSizes, len(params.Names))
			projects := make([]cbtypes.Project, 0, len(params.Names))
			for _, n := range params.Names {
				projects = append(projects, cbtypes.Project{
					Name:        aws.String(n),
					Source:      &cbtypes.ProjectSource{Type: cbtypes.SourceTypeGithub},
					Environment: &cbtypes.ProjectEnvironment{Image: aws.String("aws/codebuild/standard:7.0")},
				})
			}
			return &codebuild.BatchGetProjectsOutput{Projects: projects}, nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	details, err := pc.BatchGetProjects(context.Background(), names)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 100, 50}, chunkSizes)
	assert.Len(t, details, 250)
	assert.Equal(t, "GITHUB", details["project-000"].SourceType)
}

func TestBatchGetProjectsMissingEntries(t *testing.T) {
	client := &mockCodeBuild{
		batchGetProjectsFunc: func(ctx context.Context, params *codebuild.BatchGetProjectsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetProjectsOutput, error) {
			return &codebuild.BatchGetProjectsOutput{
				ProjectsNotFound: params.Names,
			}, nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	details, err := pc.BatchGetProjects(context.Background(), []string{"ghost"})
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestLatestBuild(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	client := &mockCodeBuild{
		listBuildsForProjectFunc: func(ctx context.Context, params *codebuild.ListBuildsForProjectInput, optFns ...func(*codebuild.Options)) (*codebuild.ListBuildsForProjectOutput, error) {
			assert.Equal(t, cbtypes.SortOrderTypeDescending, params.SortOrder)
			return &codebuild.ListBuildsForProjectOutput{
				Ids: []string{"build:newest", "build:older"},
			}, nil
		},
		batchGetBuildsFunc: func(ctx context.Context, params *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error) {
			assert.Equal(t, []string{"build:newest"}, params.Ids)
			return &codebuild.BatchGetBuildsOutput{
				Builds: []cbtypes.Build{{Id: aws.String("build:newest"), StartTime: &start}},
			}, nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	got, err := pc.LatestBuild(context.Background(), "api-build")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, start, *got)
}

func TestLatestBuildNeverBuilt(t *testing.T) {
	client := &mockCodeBuild{
		listBuildsForProjectFunc: func(ctx context.Context, params *codebuild.ListBuildsForProjectInput, optFns ...func(*codebuild.Options)) (*codebuild.ListBuildsForProjectOutput, error) {
			return &codebuild.ListBuildsForProjectOutput{}, nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	got, err := pc.LatestBuild(context.Background(), "never-ran")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLatestBuildMissingStartTime(t *testing.T) {
	client := &mockCodeBuild{
		listBuildsForProjectFunc: func(ctx context.Context, params *codebuild.ListBuildsForProjectInput, optFns ...func(*codebuild.Options)) (*codebuild.ListBuildsForProjectOutput, error) {
			return &codebuild.ListBuildsForProjectOutput{Ids: []string{"build:queued"}}, nil
		},
		batchGetBuildsFunc: func(ctx context.Context, params *codebuild.BatchGetBuildsInput, optFns ...func(*codebuild.Options)) (*codebuild.BatchGetBuildsOutput, error) {
			return &codebuild.BatchGetBuildsOutput{
				Builds: []cbtypes.Build{{Id: aws.String("build:queued")}},
			}, nil
		},
	}

	pc := NewProjectClient(client, "us-east-1")
	got, err := pc.LatestBuild(context.Background(), "queued-only")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestConvertProjectDefaults(t *testing.T) {
	info := convertProject(cbtypes.Project{Name: aws.String("bare")})
	assert.Equal(t, "NO_SOURCE", info.SourceType)
	assert.Empty(t, info.EnvironmentImage)
}
