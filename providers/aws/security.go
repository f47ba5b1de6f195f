package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cloudtally/cloudtally/types"
)

// allUsersGranteeURI marks an ACL grant open to anyone on the internet.
const allUsersGranteeURI = "http://acs.amazonaws.com/groups/global/AllUsers"

// S3SecurityCollector grades every bucket on public access, encryption,
// versioning and access logging. Bucket listing is global, so this runs
// once per run.
type S3SecurityCollector struct{}

func (l *S3SecurityCollector) Name() string     { return "s3sec" }
func (l *S3SecurityCollector) Global() bool     { return true }
func (l *S3SecurityCollector) Header() []string { return types.S3SecurityFinding{}.Header() }

func (l *S3SecurityCollector) Collect(ctx context.Context, c *Clients, _ time.Time) ([]types.Record, []types.ReportError, error) {
	output, err := c.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, nil, fmt.Errorf("list buckets: %w", err)
	}

	var records []types.Record
	var warnings []types.ReportError

	for _, bucket := range output.Buckets {
		rec, warns := l.checkBucket(ctx, c.S3, bucket)
		records = append(records, rec)
		warnings = append(warnings, warns...)
	}

	return records, warnings, nil
}

// checkBucket runs the per-bucket security lookups. Each is best-effort:
// a failure leaves the field marked unknown and records a warning.
func (l *S3SecurityCollector) checkBucket(ctx context.Context, client S3API, bucket s3types.Bucket) (types.S3SecurityFinding, []types.ReportError) {
	name := aws.ToString(bucket.Name)
	rec := types.S3SecurityFinding{
		Bucket:       name,
		PublicAccess: "NotConfigured",
		Encryption:   "Disabled",
		Versioning:   "Disabled",
		Logging:      "Disabled",
	}

	var warnings []types.ReportError
	warn := func(err error, what string) {
		warnings = append(warnings, types.ReportError{
			Scope:    "s3sec",
			Resource: name,
			Message:  fmt.Sprintf("%s: %v", what, err),
		})
	}

	policy, err := client.GetBucketPolicyStatus(ctx, &s3.GetBucketPolicyStatusInput{Bucket: bucket.Name})
	switch {
	case isAPIError(err, "NoSuchBucketPolicy"):
		// No policy means nothing grants public access.
	case err != nil:
		warn(err, "get policy status")
		rec.PublicAccess = "unknown"
	case policy.PolicyStatus != nil:
		rec.PolicyPublic = aws.ToBool(policy.PolicyStatus.IsPublic)
		if rec.PolicyPublic {
			rec.PublicAccess = "Public"
		} else {
			rec.PublicAccess = "Restricted"
		}
	}

	acl, err := client.GetBucketAcl(ctx, &s3.GetBucketAclInput{Bucket: bucket.Name})
	if err != nil {
		warn(err, "get acl")
	} else {
		for _, grant := range acl.Grants {
			if grant.Grantee != nil && aws.ToString(grant.Grantee.URI) == allUsersGranteeURI {
				rec.ACLPublic = true
				break
			}
		}
	}

	encryption, err := client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: bucket.Name})
	switch {
	case isAPIError(err, "ServerSideEncryptionConfigurationNotFoundError"):
		// Unencrypted bucket, already the default.
	case err != nil:
		warn(err, "get encryption")
		rec.Encryption = "unknown"
	case encryption.ServerSideEncryptionConfiguration != nil &&
		len(encryption.ServerSideEncryptionConfiguration.Rules) > 0:
		rec.Encryption = "Enabled"
	}

	versioning, err := client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: bucket.Name})
	if err != nil {
		warn(err, "get versioning")
		rec.Versioning = "unknown"
	} else if versioning.Status == s3types.BucketVersioningStatusEnabled {
		rec.Versioning = "Enabled"
	}

	logging, err := client.GetBucketLogging(ctx, &s3.GetBucketLoggingInput{Bucket: bucket.Name})
	if err != nil {
		warn(err, "get logging")
		rec.Logging = "unknown"
	} else if logging.LoggingEnabled != nil {
		rec.Logging = "Enabled"
	}

	rec.Severity = bucketSeverity(rec)
	return rec, warnings
}

// bucketSeverity grades a finding. Public exposure or missing encryption
// is High, missing versioning or logging is Medium, everything else Low.
func bucketSeverity(rec types.S3SecurityFinding) string {
	switch {
	case rec.ACLPublic || rec.PolicyPublic || rec.Encryption == "Disabled":
		return "High"
	case rec.Versioning == "Disabled" || rec.Logging == "Disabled":
		return "Medium"
	default:
		return "Low"
	}
}
