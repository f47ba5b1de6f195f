package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/cloudtally/cloudtally/types"
)

// S3Collector inventories S3 buckets with region, versioning, encryption
// and tags. Bucket listing is global, so this runs once per run.
type S3Collector struct{}

func (l *S3Collector) Name() string     { return "s3" }
func (l *S3Collector) Global() bool     { return true }
func (l *S3Collector) Header() []string { return types.S3Bucket{}.Header() }

func (l *S3Collector) Collect(ctx context.Context, c *Clients, _ time.Time) ([]types.Record, []types.ReportError, error) {
	output, err := c.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, nil, fmt.Errorf("list buckets: %w", err)
	}

	var records []types.Record
	var warnings []types.ReportError

	for _, bucket := range output.Buckets {
		rec, warns := l.describeBucket(ctx, c.S3, bucket)
		records = append(records, rec)
		warnings = append(warnings, warns...)
	}

	return records, warnings, nil
}

// describeBucket joins the per-bucket secondary lookups. Each is
// best-effort: a failure leaves the field marked unknown and records a
// warning instead of being swallowed.
func (l *S3Collector) describeBucket(ctx context.Context, client S3API, bucket s3types.Bucket) (types.S3Bucket, []types.ReportError) {
	name := aws.ToString(bucket.Name)
	rec := types.S3Bucket{
		Bucket:     name,
		Region:     "us-east-1",
		Versioning: "Disabled",
		Encryption: "None",
	}
	if bucket.CreationDate != nil {
		created := bucket.CreationDate.UTC()
		rec.CreateDate = &created
	}

	var warnings []types.ReportError
	warn := func(err error, what string) {
		warnings = append(warnings, types.ReportError{
			Scope:    "s3",
			Resource: name,
			Message:  fmt.Sprintf("%s: %v", what, err),
		})
	}

	location, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: bucket.Name})
	if err != nil {
		warn(err, "get location")
		rec.Region = "unknown"
	} else if location.LocationConstraint != "" {
		rec.Region = string(location.LocationConstraint)
	}

	versioning, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: bucket.Name})
	if err != nil {
		warn(err, "get versioning")
		rec.Versioning = "unknown"
	} else if versioning.Status != "" {
		rec.Versioning = string(versioning.Status)
	}

	rec.Encryption = l.bucketEncryption(ctx, client, bucket.Name, warn)

	tagging, err := client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: bucket.Name})
	if err != nil {
		// NoSuchTagSet just means an untagged bucket.
		if !isAPIError(err, "NoSuchTagSet") {
			warn(err, "get tagging")
		}
	} else {
		rec.Tags = convertS3Tags(tagging.TagSet)
	}

	return rec, warnings
}

func (l *S3Collector) bucketEncryption(ctx context.Context, client S3API, bucket *string, warn func(error, string)) string {
	output, err := client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: bucket})
	if err != nil {
		// Absent configuration means an unencrypted bucket, not a failure.
		if isAPIError(err, "ServerSideEncryptionConfigurationNotFoundError") {
			return "None"
		}
		warn(err, "get encryption")
		return "unknown"
	}

	if output.ServerSideEncryptionConfiguration == nil {
		return "None"
	}
	for _, rule := range output.ServerSideEncryptionConfiguration.Rules {
		if rule.ApplyServerSideEncryptionByDefault != nil {
			return string(rule.ApplyServerSideEncryptionByDefault.SSEAlgorithm)
		}
	}
	return "None"
}

func isAPIError(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
