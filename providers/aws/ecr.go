package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"

	"github.com/cloudtally/cloudtally/types"
)

// reportedSeverities are the scan finding levels worth a report row.
var reportedSeverities = map[ecrtypes.FindingSeverity]struct{}{
	ecrtypes.FindingSeverityCritical: {},
	ecrtypes.FindingSeverityHigh:     {},
}

// ECRCollector reports critical and high scan findings for the most
// recently pushed image of every repository.
type ECRCollector struct{}

func (l *ECRCollector) Name() string     { return "ecr" }
func (l *ECRCollector) Global() bool     { return false }
func (l *ECRCollector) Header() []string { return types.ECRFinding{}.Header() }

func (l *ECRCollector) Collect(ctx context.Context, c *Clients, _ time.Time) ([]types.Record, []types.ReportError, error) {
	repos, err := listRepositories(ctx, c.ECR)
	if err != nil {
		return nil, nil, err
	}

	var records []types.Record
	var warnings []types.ReportError

	for _, repo := range repos {
		repoName := aws.ToString(repo.RepositoryName)

		digest, err := latestImageDigest(ctx, c.ECR, repoName)
		if err != nil {
			warnings = append(warnings, types.ReportError{
				Scope:    c.Region,
				Resource: repoName,
				Message:  fmt.Sprintf("latest image: %v", err),
			})
			continue
		}
		if digest == "" {
			// Empty repository, nothing to scan.
			continue
		}

		findings, err := scanFindings(ctx, c.ECR, repoName, digest)
		if err != nil {
			warnings = append(warnings, types.ReportError{
				Scope:    c.Region,
				Resource: repoName,
				Message:  fmt.Sprintf("scan findings: %v", err),
			})
			continue
		}

		for _, f := range findings {
			if _, ok := reportedSeverities[f.Severity]; !ok {
				continue
			}
			records = append(records, convertFinding(c.Region, repoName, digest, f))
		}
	}

	return records, warnings, nil
}

func listRepositories(ctx context.Context, client ECRAPI) ([]ecrtypes.Repository, error) {
	var repos []ecrtypes.Repository
	var nextToken *string

	for {
		output, err := client.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("describe repositories: %w", err)
		}

		repos = append(repos, output.Repositories...)

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	return repos, nil
}

// latestImageDigest finds the most recently pushed image in a repository.
// Returns "" for a repository with no images.
func latestImageDigest(ctx context.Context, client ECRAPI, repoName string) (string, error) {
	var latest *ecrtypes.ImageDetail
	var nextToken *string

	for {
		output, err := client.DescribeImages(ctx, &ecr.DescribeImagesInput{
			RepositoryName: aws.String(repoName),
			NextToken:      nextToken,
		})
		if err != nil {
			return "", fmt.Errorf("describe images: %w", err)
		}

		for i := range output.ImageDetails {
			detail := output.ImageDetails[i]
			if detail.ImagePushedAt == nil {
				continue
			}
			if latest == nil || detail.ImagePushedAt.After(*latest.ImagePushedAt) {
				latest = &output.ImageDetails[i]
			}
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	if latest == nil {
		return "", nil
	}
	return aws.ToString(latest.ImageDigest), nil
}

func scanFindings(ctx context.Context, client ECRAPI, repoName, digest string) ([]ecrtypes.ImageScanFinding, error) {
	output, err := client.DescribeImageScanFindings(ctx, &ecr.DescribeImageScanFindingsInput{
		RepositoryName: aws.String(repoName),
		ImageId:        &ecrtypes.ImageIdentifier{ImageDigest: aws.String(digest)},
	})
	if err != nil {
		return nil, fmt.Errorf("describe scan findings: %w", err)
	}
	if output.ImageScanFindings == nil {
		return nil, nil
	}
	return output.ImageScanFindings.Findings, nil
}

func convertFinding(region, repoName, digest string, f ecrtypes.ImageScanFinding) types.ECRFinding {
	rec := types.ECRFinding{
		Region:      region,
		Repository:  repoName,
		ImageDigest: digest,
		Severity:    string(f.Severity),
		FindingName: aws.ToString(f.Name),
		URI:         aws.ToString(f.Uri),
	}
	for _, attr := range f.Attributes {
		switch aws.ToString(attr.Key) {
		case "package_name":
			rec.PackageName = aws.ToString(attr.Value)
		case "package_version":
			rec.PackageVersion = aws.ToString(attr.Value)
		}
	}
	return rec
}
